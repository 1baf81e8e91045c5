package checkout

import (
	"reflect"
	"testing"
)

func completeForm() Form {
	return Form{
		Email:         "maria@example.com",
		Name:          "Maria Keller",
		Address:       "12 Pottery Lane",
		City:          "Asheville",
		State:         "NC",
		Zip:           "28801",
		PaymentMethod: PaymentCashOnPickup,
	}
}

func TestNextBlocksOnMissingFields(t *testing.T) {
	w := NewWizard()

	ok, missing := w.Next()
	if ok {
		t.Fatalf("expected contact step to block without email")
	}
	if !reflect.DeepEqual(missing, []string{"email"}) {
		t.Fatalf("unexpected missing fields: %v", missing)
	}
	if w.Step() != StepContact {
		t.Fatalf("expected wizard still at contact, got %s", w.Step())
	}
}

func TestNextAdvancesWhenStepIsComplete(t *testing.T) {
	w := NewWizard()
	w.SetForm(completeForm())

	steps := []Step{StepShipping, StepPayment, StepComplete}
	for _, want := range steps {
		ok, missing := w.Next()
		if !ok {
			t.Fatalf("expected advance to %s, blocked on %v", want, missing)
		}
		if w.Step() != want {
			t.Fatalf("expected step %s, got %s", want, w.Step())
		}
	}
}

func TestShippingStepRequiresAllAddressFields(t *testing.T) {
	w := NewWizardAt(StepShipping)
	w.SetForm(Form{Email: "maria@example.com", Name: "Maria Keller", City: "Asheville"})

	ok, missing := w.Next()
	if ok {
		t.Fatalf("expected shipping step to block")
	}
	want := []string{"address", "state", "zip"}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
}

func TestPaymentStepRequiresCardFieldsOnlyForCreditCard(t *testing.T) {
	w := NewWizardAt(StepPayment)
	f := completeForm()
	f.PaymentMethod = PaymentCreditCard
	w.SetForm(f)

	ok, missing := w.Next()
	if ok {
		t.Fatalf("expected payment step to block without card details")
	}
	want := []string{"cardNumber", "cardName", "cardExpiry", "cardCvc"}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}

	// cash on pickup needs no card details
	f.PaymentMethod = PaymentCashOnPickup
	w.SetForm(f)
	if ok, missing := w.Next(); !ok {
		t.Fatalf("expected cash on pickup to pass, blocked on %v", missing)
	}
}

func TestBackPreservesEnteredData(t *testing.T) {
	w := NewWizard()
	w.SetForm(completeForm())
	w.Next()
	w.Next()

	w.Back()
	if w.Step() != StepShipping {
		t.Fatalf("expected shipping after back, got %s", w.Step())
	}
	if w.Form().Email != "maria@example.com" || w.Form().Name != "Maria Keller" {
		t.Fatalf("expected form data preserved across back, got %+v", w.Form())
	}
}

func TestBackStopsAtContact(t *testing.T) {
	w := NewWizard()
	w.Back()
	if w.Step() != StepContact {
		t.Fatalf("expected contact, got %s", w.Step())
	}
}

func TestNewWizardAtClampsOutOfRangeSteps(t *testing.T) {
	if got := NewWizardAt(Step(99)).Step(); got != StepContact {
		t.Fatalf("expected out-of-range step clamped to contact, got %s", got)
	}
	if got := NewWizardAt(Step(-1)).Step(); got != StepContact {
		t.Fatalf("expected negative step clamped to contact, got %s", got)
	}
}

func TestParseStep(t *testing.T) {
	tests := []struct {
		name string
		want Step
		ok   bool
	}{
		{"", StepContact, true},
		{"contact", StepContact, true},
		{"shipping", StepShipping, true},
		{"payment", StepPayment, true},
		{"complete", StepComplete, true},
		{"review", StepContact, false},
	}
	for _, tc := range tests {
		got, ok := ParseStep(tc.name)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseStep(%q) = %s, %v; want %s, %v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}
