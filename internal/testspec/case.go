package testspec

// Section identifies which sequence of the document a case came from.
type Section string

const (
	SectionUnit        Section = "unit"
	SectionIntegration Section = "integration"
	SectionRegression  Section = "regression"
)

// Sections lists the sections in execution order.
var Sections = []Section{SectionUnit, SectionIntegration, SectionRegression}

// Case is one executable test case. The set of implementations is closed:
// ScriptCase, FunctionCase, IntegrationCase, RegressionCase, UnknownCase and
// InvalidCase.
type Case interface {
	CaseName() string
	Section() Section
	isCase()
}

// ScriptCase runs a bundled script and checks its exit code and output.
type ScriptCase struct{ UnitCase }

// FunctionCase is reserved for in-process checks.
type FunctionCase struct{ UnitCase }

// UnknownCase is a unit case whose type tag is not recognised.
type UnknownCase struct{ UnitCase }

// InvalidCase is a document entry that could not be decoded.
type InvalidCase struct {
	Name  string
	In    Section
	Error error
}

func (c ScriptCase) CaseName() string      { return c.Name }
func (c FunctionCase) CaseName() string    { return c.Name }
func (c UnknownCase) CaseName() string     { return c.Name }
func (c IntegrationCase) CaseName() string { return c.Name }
func (c RegressionCase) CaseName() string  { return c.Name }
func (c InvalidCase) CaseName() string     { return c.Name }

func (ScriptCase) Section() Section      { return SectionUnit }
func (FunctionCase) Section() Section    { return SectionUnit }
func (UnknownCase) Section() Section     { return SectionUnit }
func (IntegrationCase) Section() Section { return SectionIntegration }
func (RegressionCase) Section() Section  { return SectionRegression }
func (c InvalidCase) Section() Section   { return c.In }

func (ScriptCase) isCase()      {}
func (FunctionCase) isCase()    {}
func (UnknownCase) isCase()     {}
func (IntegrationCase) isCase() {}
func (RegressionCase) isCase()  {}
func (InvalidCase) isCase()     {}

// Cases returns every case in execution order: unit, then integration, then
// regression, each in document order.
func (s *Spec) Cases() []Case {
	cases := make([]Case, 0, len(s.UnitTests)+len(s.IntegrationTests)+len(s.RegressionTests))

	for _, u := range s.UnitTests {
		switch {
		case u.decodeErr != nil:
			cases = append(cases, InvalidCase{Name: u.Name, In: SectionUnit, Error: u.decodeErr})
		case u.Type == TypeScript || u.Type == "":
			cases = append(cases, ScriptCase{u})
		case u.Type == TypeFunction:
			cases = append(cases, FunctionCase{u})
		default:
			cases = append(cases, UnknownCase{u})
		}
	}

	for _, c := range s.IntegrationTests {
		if c.decodeErr != nil {
			cases = append(cases, InvalidCase{Name: c.Name, In: SectionIntegration, Error: c.decodeErr})
			continue
		}
		cases = append(cases, c)
	}

	for _, c := range s.RegressionTests {
		if c.decodeErr != nil {
			cases = append(cases, InvalidCase{Name: c.Name, In: SectionRegression, Error: c.decodeErr})
			continue
		}
		cases = append(cases, c)
	}

	return cases
}
