package calculator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is one of the four calculator layouts.
type Kind string

const (
	KindBMI  Kind = "bmi"
	KindAge  Kind = "age"
	KindLoan Kind = "loan"
	KindSum  Kind = "sum"
)

// KindOf maps a tool type to its calculator. Types match exactly; anything
// else, including "BMI", uses the generic sum.
func KindOf(toolType string) Kind {
	switch k := Kind(toolType); k {
	case KindBMI, KindAge, KindLoan:
		return k
	default:
		return KindSum
	}
}

// Field is one input of a form.
type Field struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Input string `json:"input"`
}

// Form describes what the widget renders for a Kind.
type Form struct {
	Kind   Kind    `json:"kind"`
	Intro  string  `json:"intro,omitempty"`
	Fields []Field `json:"fields"`
	Button string  `json:"button"`
}

// FormFor returns the form layout for kind.
func FormFor(kind Kind) Form {
	switch kind {
	case KindBMI:
		return Form{Kind: kind, Button: "Calculate BMI", Fields: []Field{
			{ID: "w", Label: "Weight (kg)", Input: "number"},
			{ID: "h", Label: "Height (cm)", Input: "number"},
		}}
	case KindAge:
		return Form{Kind: kind, Button: "Calculate Age", Fields: []Field{
			{ID: "dob", Label: "Date of birth", Input: "date"},
		}}
	case KindLoan:
		return Form{Kind: kind, Button: "Calculate", Fields: []Field{
			{ID: "amount", Label: "Loan amount", Input: "number"},
			{ID: "rate", Label: "Annual interest %", Input: "number"},
			{ID: "years", Label: "Years", Input: "number"},
		}}
	default:
		return Form{
			Kind:   KindSum,
			Intro:  "This tool uses a generic numeric calculator. Enter values below and press Calculate.",
			Button: "Calculate",
			Fields: []Field{
				{ID: "a", Label: "Value A", Input: "number"},
				{ID: "b", Label: "Value B", Input: "number"},
			},
		}
	}
}

// InputError reports a field that could not be parsed.
type InputError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s %s", e.Field, e.Reason)
	}
	if e.Value == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s: cannot parse %q", e.Field, e.Value)
}

func (e *InputError) Unwrap() error { return e.Err }

// ErrInvalidInput is wrapped by every InputError.
var ErrInvalidInput = errors.New("invalid input")

// Inputs maps field ids to raw text.
type Inputs map[string]string

func (in Inputs) number(form Form, id string) (float64, error) {
	raw := strings.TrimSpace(in[id])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &InputError{Field: form.label(id), Value: raw, Err: ErrInvalidInput}
	}
	return v, nil
}

func (f Form) label(id string) string {
	for _, fld := range f.Fields {
		if fld.ID == id {
			return fld.Label
		}
	}
	return id
}

const dateLayout = "2006-01-02"

const yearLength = 365.25 * 24 * float64(time.Hour)

// Compute evaluates kind against in and returns the formatted result line.
// now is the reference time for the age calculator.
func Compute(kind Kind, in Inputs, now time.Time) (string, error) {
	form := FormFor(kind)
	switch form.Kind {
	case KindBMI:
		w, err := in.number(form, "w")
		if err != nil {
			return "", err
		}
		h, err := in.number(form, "h")
		if err != nil {
			return "", err
		}
		if h <= 0 {
			return "", &InputError{Field: form.label("h"), Value: in["h"], Reason: "must be positive", Err: ErrInvalidInput}
		}
		return "BMI: " + strconv.FormatFloat(BMI(w, h), 'f', 2, 64), nil

	case KindAge:
		raw := strings.TrimSpace(in["dob"])
		dob, err := time.Parse(dateLayout, raw)
		if err != nil {
			return "", &InputError{Field: form.label("dob"), Value: raw, Err: ErrInvalidInput}
		}
		return fmt.Sprintf("Age: %d years", Age(dob, now)), nil

	case KindLoan:
		p, err := in.number(form, "amount")
		if err != nil {
			return "", err
		}
		rate, err := in.number(form, "rate")
		if err != nil {
			return "", err
		}
		years, err := in.number(form, "years")
		if err != nil {
			return "", err
		}
		if years <= 0 {
			return "", &InputError{Field: form.label("years"), Value: in["years"], Reason: "must be positive", Err: ErrInvalidInput}
		}
		return "Monthly payment: " + strconv.FormatFloat(MonthlyPayment(p, rate, years), 'f', 2, 64), nil

	default:
		a, err := in.number(form, "a")
		if err != nil {
			return "", err
		}
		b, err := in.number(form, "b")
		if err != nil {
			return "", err
		}
		return "Result: " + strconv.FormatFloat(a+b, 'f', -1, 64), nil
	}
}

// Result is Compute with errors rendered as an inline "Error: ..." line.
func Result(kind Kind, in Inputs, now time.Time) string {
	out, err := Compute(kind, in, now)
	if err != nil {
		return "Error: " + err.Error()
	}
	return out
}

// BMI is weight (kg) over height (cm, converted to m) squared.
func BMI(weightKg, heightCm float64) float64 {
	h := heightCm / 100
	return weightKg / (h * h)
}

// Age is the number of whole 365.25-day years between dob and now.
func Age(dob, now time.Time) int {
	return int(math.Floor(float64(now.Sub(dob)) / yearLength))
}

// MonthlyPayment amortises principal over years at an annual percentage
// rate. A zero rate splits the principal evenly.
func MonthlyPayment(principal, annualRatePct, years float64) float64 {
	r := annualRatePct / 100 / 12
	n := years * 12
	if r == 0 {
		return principal / n
	}
	return principal * r / (1 - math.Pow(1+r, -n))
}
