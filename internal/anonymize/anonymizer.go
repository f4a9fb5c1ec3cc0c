package anonymize

import (
	"fmt"
	"sort"

	"github.com/nordtime/aiguard/internal/subst"
)

// projectPseudonymPool is the fixed pool of project pseudonyms. Projects
// beyond the pool fall back to "Project <n>".
var projectPseudonymPool = []string{
	"Project Alpha", "Project Beta", "Project Gamma", "Project Delta",
	"Project Epsilon", "Project Zeta", "Project Eta", "Project Theta",
	"Project Iota", "Project Kappa", "Project Lambda", "Project Mu",
	"Project Nu", "Project Xi", "Project Omicron", "Project Pi",
	"Project Rho", "Project Sigma", "Project Tau", "Project Upsilon",
	"Project Phi", "Project Chi", "Project Psi", "Project Omega",
}

// Anonymize builds the pseudonym map for a structured analytics payload and
// returns a fully anonymized deep copy alongside it. The original package is
// never mutated. Name sets are sorted alphabetically before assignment, so
// identical input always yields identical pseudonyms.
func Anonymize(pkg *InsightDataPackage) (*InsightDataPackage, *Map) {
	employees := collectEmployeeNames(pkg)
	projects := collectProjectNames(pkg)

	m := &Map{CompanyName: pkg.Company.Name}
	for i, name := range employees {
		m.Employees = append(m.Employees, Pairing{Real: name, Pseudonym: employeePseudonym(i)})
	}
	for i, name := range projects {
		m.Projects = append(m.Projects, Pairing{Real: name, Pseudonym: projectPseudonym(i)})
	}

	clone := pkg.Clone()
	applyMap(clone, m)
	return clone, m
}

// collectEmployeeNames gathers the set of distinct real employee names across
// every name-bearing section, sorted alphabetically.
func collectEmployeeNames(pkg *InsightDataPackage) []string {
	set := make(map[string]bool)
	add := func(name string) {
		if name != "" {
			set[name] = true
		}
	}

	for _, tm := range pkg.TeamMembers {
		add(tm.Name)
	}
	for _, row := range pkg.Workload {
		add(row.UserName)
	}
	for _, v := range pkg.Vacations {
		add(v.UserName)
	}
	for _, a := range pkg.Allocations {
		add(a.UserName)
	}
	for _, r := range pkg.SinglePersonRisks {
		add(r.UserName)
	}
	for _, g := range pkg.ProductivityGaps {
		add(g.UserName)
	}

	return sortedKeys(set)
}

// collectProjectNames gathers distinct project names from the project,
// contract, allocation and risk sections, sorted alphabetically.
func collectProjectNames(pkg *InsightDataPackage) []string {
	set := make(map[string]bool)
	add := func(name string) {
		if name != "" {
			set[name] = true
		}
	}

	for _, p := range pkg.Projects {
		add(p.Name)
	}
	for _, c := range pkg.Contracts {
		add(c.ProjectName)
	}
	for _, a := range pkg.Allocations {
		add(a.ProjectName)
	}
	for _, r := range pkg.SinglePersonRisks {
		add(r.ProjectName)
	}

	return sortedKeys(set)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// employeePseudonym assigns "Employee A".."Employee Z", then two-letter
// "Employee AA", "Employee AB", and so on.
func employeePseudonym(i int) string {
	if i < 26 {
		return fmt.Sprintf("Employee %c", 'A'+i)
	}
	i -= 26
	return fmt.Sprintf("Employee %c%c", 'A'+i/26, 'A'+i%26)
}

// projectPseudonym draws from the fixed pool and falls back to a numbered
// form beyond it.
func projectPseudonym(i int) string {
	if i < len(projectPseudonymPool) {
		return projectPseudonymPool[i]
	}
	return fmt.Sprintf("Project %d", i+1)
}

// applyMap overwrites every collected name field in the clone and clears raw
// identifiers that are not needed downstream.
func applyMap(clone *InsightDataPackage, m *Map) {
	clone.Company.ID = ""
	clone.Company.Name = companyPseudonym

	employee := func(name string) string {
		if pseudonym, ok := m.EmployeePseudonym(name); ok {
			return pseudonym
		}
		return name
	}
	project := func(name string) string {
		if pseudonym, ok := m.ProjectPseudonym(name); ok {
			return pseudonym
		}
		return name
	}

	for i := range clone.TeamMembers {
		clone.TeamMembers[i].ID = ""
		clone.TeamMembers[i].Name = employee(clone.TeamMembers[i].Name)
	}
	for i := range clone.Workload {
		clone.Workload[i].UserName = employee(clone.Workload[i].UserName)
	}
	for i := range clone.Projects {
		clone.Projects[i].Name = project(clone.Projects[i].Name)
	}
	for i := range clone.Vacations {
		clone.Vacations[i].UserName = employee(clone.Vacations[i].UserName)
	}
	for i := range clone.Allocations {
		clone.Allocations[i].UserName = employee(clone.Allocations[i].UserName)
		clone.Allocations[i].ProjectName = project(clone.Allocations[i].ProjectName)
	}
	for i := range clone.SinglePersonRisks {
		clone.SinglePersonRisks[i].UserName = employee(clone.SinglePersonRisks[i].UserName)
		clone.SinglePersonRisks[i].ProjectName = project(clone.SinglePersonRisks[i].ProjectName)
	}
	for i := range clone.ProductivityGaps {
		clone.ProductivityGaps[i].UserName = employee(clone.ProductivityGaps[i].UserName)
	}

	// narrative fields get a full substring scrub with the combined pair
	// list, longest-first, same collision rule as the document scrubber
	pairs := scrubPairs(m)
	for i := range clone.Contracts {
		clone.Contracts[i].ProjectName = project(clone.Contracts[i].ProjectName)
		clone.Contracts[i].ScopeDescription, _ = subst.Apply(clone.Contracts[i].ScopeDescription, pairs)
	}
}

// scrubPairs builds the free-text substitution list from the map.
func scrubPairs(m *Map) []subst.Pair {
	pairs := make([]subst.Pair, 0, len(m.Employees)+len(m.Projects)+1)
	if m.CompanyName != "" {
		pairs = append(pairs, subst.Pair{Original: m.CompanyName, Replacement: companyPseudonym})
	}
	for _, p := range m.Employees {
		pairs = append(pairs, subst.Pair{Original: p.Real, Replacement: p.Pseudonym})
	}
	for _, p := range m.Projects {
		pairs = append(pairs, subst.Pair{Original: p.Real, Replacement: p.Pseudonym})
	}
	return pairs
}
