package domain

// Step is the position in the four-stage checkout flow.
type Step int

const (
	StepCart Step = iota
	StepShipping
	StepPayment
	StepConfirmation
)

const stepCount = 4

var stepNames = [stepCount]string{"carrito", "datos", "pago", "confirmacion"}

var stepLabels = [stepCount]string{
	"Revisión del carrito",
	"Datos de envío",
	"Método de pago",
	"Confirmación de compra",
}

func (s Step) Valid() bool {
	return s >= StepCart && s <= StepConfirmation
}

func (s Step) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return stepNames[s]
}

// Label is the user-facing name of the step.
func (s Step) Label() string {
	if !s.Valid() {
		return ""
	}
	return stepLabels[s]
}

// ProgressPercent is how far through the flow the step is, for the progress bar.
func (s Step) ProgressPercent() float64 {
	if !s.Valid() {
		return 0
	}
	return float64(s+1) / float64(stepCount) * 100
}
