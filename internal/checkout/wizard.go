package checkout

// Step is one stage of the linear checkout wizard.
type Step int

const (
	StepContact Step = iota
	StepShipping
	StepPayment
	StepComplete
)

func (s Step) String() string {
	switch s {
	case StepContact:
		return "contact"
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepComplete:
		return "complete"
	}
	return "unknown"
}

type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentCashOnPickup PaymentMethod = "cash_on_pickup"
)

// Form holds everything the user has entered so far. Back() preserves
// it; only Next() inspects the fields for the current step.
type Form struct {
	Email string `json:"email"`

	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country,omitempty"`

	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CardNumber    string        `json:"cardNumber,omitempty"`
	CardName      string        `json:"cardName,omitempty"`
	CardExpiry    string        `json:"cardExpiry,omitempty"`
	CardCVC       string        `json:"cardCvc,omitempty"`
}

// Wizard walks Contact -> Shipping -> Payment -> Complete. Next
// advances only when the current step's required fields are filled;
// Back always retreats one step.
type Wizard struct {
	step Step
	form Form
}

func NewWizard() *Wizard {
	return &Wizard{step: StepContact}
}

// NewWizardAt resumes a wizard at the given step, for clients that
// track their own position and only need server-side validation.
func NewWizardAt(step Step) *Wizard {
	if step < StepContact || step > StepComplete {
		step = StepContact
	}
	return &Wizard{step: step}
}

// ParseStep maps a step name to its Step. The empty string parses as
// the contact step.
func ParseStep(name string) (Step, bool) {
	switch name {
	case "", "contact":
		return StepContact, true
	case "shipping":
		return StepShipping, true
	case "payment":
		return StepPayment, true
	case "complete":
		return StepComplete, true
	}
	return StepContact, false
}

func (w *Wizard) Step() Step { return w.step }
func (w *Wizard) Form() Form { return w.form }

// SetForm merges newly entered data. Data survives Back().
func (w *Wizard) SetForm(f Form) { w.form = f }

// Next validates the current step and advances on success. The
// returned slice names the missing fields when validation fails.
func (w *Wizard) Next() (ok bool, missing []string) {
	missing = w.missingFields()
	if len(missing) > 0 {
		return false, missing
	}
	if w.step < StepComplete {
		w.step++
	}
	return true, nil
}

// Back retreats one step unconditionally, keeping entered data.
func (w *Wizard) Back() {
	if w.step > StepContact {
		w.step--
	}
}

func (w *Wizard) missingFields() []string {
	var missing []string
	switch w.step {
	case StepContact:
		if w.form.Email == "" {
			missing = append(missing, "email")
		}
	case StepShipping:
		required := []struct {
			name  string
			value string
		}{
			{"name", w.form.Name},
			{"address", w.form.Address},
			{"city", w.form.City},
			{"state", w.form.State},
			{"zip", w.form.Zip},
		}
		for _, f := range required {
			if f.value == "" {
				missing = append(missing, f.name)
			}
		}
	case StepPayment:
		if w.form.PaymentMethod == PaymentCreditCard {
			required := []struct {
				name  string
				value string
			}{
				{"cardNumber", w.form.CardNumber},
				{"cardName", w.form.CardName},
				{"cardExpiry", w.form.CardExpiry},
				{"cardCvc", w.form.CardCVC},
			}
			for _, f := range required {
				if f.value == "" {
					missing = append(missing, f.name)
				}
			}
		}
	}
	return missing
}
