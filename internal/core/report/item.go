package report

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Kind identifies the variant of an Item.
type Kind int

const (
	KindFact Kind = iota
	KindFootnote
)

func (k Kind) String() string {
	switch k {
	case KindFact:
		return "fact"
	case KindFootnote:
		return "footnote"
	default:
		return "unknown"
	}
}

// Item is a selectable element of the report. The set of implementations is
// closed: *Fact and *Footnote.
type Item interface {
	ItemID() string
	Kind() Kind
	isItem()
}

// Severity of a validation result.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "ok"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// UnmarshalJSON accepts either the numeric form (0, 1, 2) or the names
// "ok", "warn" and "error".
func (s *Severity) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n < int(SeverityOK) || n > int(SeverityError) {
			return fmt.Errorf("invalid severity %d", n)
		}
		*s = Severity(n)
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("severity must be a number or string: %w", err)
	}
	switch strings.ToLower(name) {
	case "ok":
		*s = SeverityOK
	case "warn", "warning":
		*s = SeverityWarn
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("invalid severity %q", name)
	}
	return nil
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ValidationResult is a single rule outcome attached to a fact.
type ValidationResult struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Signature roles.
const (
	RoleOfficial          = "oor"
	RoleEngagementContext = "ecr"
)

// Signature is a vLEI credential that signed a fact.
type Signature struct {
	Type       string            `json:"t"`
	Attributes map[string]string `json:"a"`
}

// Official reports whether the signature carries an official organisational role.
func (s Signature) Official() bool { return s.Type == RoleOfficial }

// LegalName of the signer.
func (s Signature) LegalName() string { return s.Attributes["personLegalName"] }

// LEI of the signing entity.
func (s Signature) LEI() string { return s.Attributes["LEI"] }

// Role returns the official or engagement context role depending on the type.
func (s Signature) Role() string {
	if s.Official() {
		return s.Attributes["officialRole"]
	}
	return s.Attributes["engagementContextRole"]
}

// Credential is a report-wide signing credential. Facts lists the fact ids
// covered by the credential; an empty list covers every fact.
type Credential struct {
	ID    string            `json:"id"`
	OOR   map[string]string `json:"oor,omitempty"`
	ECR   map[string]string `json:"ecr,omitempty"`
	Facts []string          `json:"facts,omitempty"`
}

// Signature converts a full credential into its signature form. ok is false
// for credentials that carry neither role.
func (c Credential) Signature() (Signature, bool) {
	switch {
	case c.OOR != nil:
		return Signature{Type: RoleOfficial, Attributes: c.OOR}, true
	case c.ECR != nil:
		return Signature{Type: RoleEngagementContext, Attributes: c.ECR}, true
	default:
		return Signature{}, false
	}
}

// Context holds the identifiers of the fact's underlying XBRL context.
type Context struct {
	ContextID string `json:"id"`
	EntityID  string `json:"entity"`
	PeriodID  string `json:"period"`
}

// Fact is a single tagged value in the report.
type Fact struct {
	ID         string             `json:"id"`
	Concept    string             `json:"concept"`
	Period     Period             `json:"period"`
	Dimensions map[string]string  `json:"dims,omitempty"`
	Value      string             `json:"value"`
	Decimals   *int               `json:"decimals,omitempty"`
	Unit       string             `json:"unit,omitempty"`
	Hidden     bool               `json:"hidden,omitempty"`
	Table      string             `json:"table,omitempty"`
	Validation []ValidationResult `json:"validation,omitempty"`
	Signatures []Signature        `json:"signatures,omitempty"`
	Context    Context            `json:"context"`

	// Footnotes is filled in from the report's footnote associations.
	Footnotes []string `json:"-"`
}

func (f *Fact) ItemID() string { return f.ID }
func (f *Fact) Kind() Kind     { return KindFact }
func (f *Fact) isItem()        {}

// IsNumeric reports whether the fact carries a unit of measure.
func (f *Fact) IsNumeric() bool {
	return f.Unit != ""
}

// Number parses the fact value. ok is false for non-numeric facts and
// values that do not parse.
func (f *Fact) Number() (float64, bool) {
	if !f.IsNumeric() {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(f.Value), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ReadableValue formats the value for display.
func (f *Fact) ReadableValue() string {
	if !f.IsNumeric() {
		v := strings.Join(strings.Fields(f.Value), " ")
		if v == "" {
			return "nil"
		}
		return v
	}

	v, ok := f.Number()
	if !ok {
		return f.Value
	}

	// Without decimals the value is exact and shown as written.
	var s string
	switch {
	case f.Decimals == nil:
		s = humanize.Commaf(v)
	case *f.Decimals > 0:
		s = humanize.FormatFloat("#,###."+strings.Repeat("#", *f.Decimals), v)
	default:
		s = humanize.Comma(int64(math.Round(v)))
	}

	if unit := unitLabel(f.Unit); unit != "" {
		return unit + " " + s
	}
	return s
}

var accuracyNames = map[int]string{
	-9: "billions",
	-6: "millions",
	-3: "thousands",
	0:  "ones",
	1:  "10ths",
	2:  "100ths",
	3:  "1000ths",
}

// ReadableAccuracy describes the decimals attribute.
func (f *Fact) ReadableAccuracy() string {
	if !f.IsNumeric() {
		return "n/a"
	}
	if f.Decimals == nil {
		return "Infinite precision"
	}
	if name, ok := accuracyNames[*f.Decimals]; ok {
		return name
	}
	return strconv.Itoa(*f.Decimals)
}

// PeriodString is the human readable period.
func (f *Fact) PeriodString() string {
	return f.Period.String()
}

func unitLabel(unit string) string {
	if unit == "" {
		return ""
	}
	if i := strings.LastIndex(unit, ":"); i >= 0 {
		return unit[i+1:]
	}
	return unit
}

// Footnote is free text attached to one or more facts.
type Footnote struct {
	ID    string   `json:"id"`
	Text  string   `json:"text"`
	Facts []string `json:"facts"`
}

func (fn *Footnote) ItemID() string { return fn.ID }
func (fn *Footnote) Kind() Kind     { return KindFootnote }
func (fn *Footnote) isItem()        {}

// Concept describes a taxonomy concept.
type Concept struct {
	Name      string            `json:"-"`
	Labels    map[string]string `json:"labels,omitempty"`
	Type      string            `json:"type,omitempty"`
	Extension bool              `json:"extension,omitempty"`
}

// Label returns the label for the given role, falling back to the
// concept name when no label exists.
func (c Concept) Label(role string) string {
	if l := c.Labels[role]; l != "" {
		return l
	}
	if role != "std" {
		return ""
	}
	return c.Name
}

// Contribution is a single summation-item relationship in a calculation.
type Contribution struct {
	Concept string  `json:"concept"`
	Weight  float64 `json:"weight"`
}
