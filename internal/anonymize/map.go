package anonymize

// companyPseudonym replaces the tenant's company name in anonymized output.
const companyPseudonym = "The Company"

// Pairing binds one real name to its pseudonym.
type Pairing struct {
	Real      string `json:"real"`
	Pseudonym string `json:"pseudonym"`
}

// Map is the bidirectional real<->pseudonym lookup built for one
// anonymization call. The ordered pair slices are authoritative so pseudonym
// assignment stays reproducible; the lookup indexes are derived from them on
// demand (which also makes a Map decoded from JSON usable directly).
//
// A Map holds real names and must live only for the duration of one request;
// persisting it would itself be a PII leak.
type Map struct {
	CompanyName string    `json:"companyName"`
	Employees   []Pairing `json:"employees"`
	Projects    []Pairing `json:"projects"`

	employeeForward map[string]string
	employeeReverse map[string]string
	projectForward  map[string]string
	projectReverse  map[string]string
}

func (m *Map) index() {
	if m.employeeForward != nil {
		return
	}
	m.employeeForward = make(map[string]string, len(m.Employees))
	m.employeeReverse = make(map[string]string, len(m.Employees))
	m.projectForward = make(map[string]string, len(m.Projects))
	m.projectReverse = make(map[string]string, len(m.Projects))

	for _, p := range m.Employees {
		m.employeeForward[p.Real] = p.Pseudonym
		m.employeeReverse[p.Pseudonym] = p.Real
	}
	for _, p := range m.Projects {
		m.projectForward[p.Real] = p.Pseudonym
		m.projectReverse[p.Pseudonym] = p.Real
	}
}

// EmployeePseudonym returns the pseudonym for a real employee name.
func (m *Map) EmployeePseudonym(real string) (string, bool) {
	m.index()
	pseudonym, ok := m.employeeForward[real]
	return pseudonym, ok
}

// RealEmployee returns the real name behind an employee pseudonym.
func (m *Map) RealEmployee(pseudonym string) (string, bool) {
	m.index()
	real, ok := m.employeeReverse[pseudonym]
	return real, ok
}

// ProjectPseudonym returns the pseudonym for a real project name.
func (m *Map) ProjectPseudonym(real string) (string, bool) {
	m.index()
	pseudonym, ok := m.projectForward[real]
	return pseudonym, ok
}

// RealProject returns the real name behind a project pseudonym.
func (m *Map) RealProject(pseudonym string) (string, bool) {
	m.index()
	real, ok := m.projectReverse[pseudonym]
	return real, ok
}
