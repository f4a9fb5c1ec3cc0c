package anonymize

import (
	"fmt"
	"strings"
	"testing"
)

func samplePackage() *InsightDataPackage {
	return &InsightDataPackage{
		Company: CompanyInfo{ID: "cmp_83asd", Name: "Acme ApS"},
		TeamMembers: []TeamMember{
			{ID: "usr_1", Name: "Mette Friis", Role: "Consultant", WeeklyHours: 37},
			{ID: "usr_2", Name: "Anders Holm", Role: "Partner", WeeklyHours: 37},
		},
		Workload: []WorkloadRow{
			{UserName: "Anders Holm", BillableHours: 120, TotalHours: 150, UtilizationPct: 80},
		},
		Projects: []ProjectInfo{
			{Name: "Havnefronten", Status: "active", BudgetHours: 400, SpentHours: 310},
		},
		Vacations: []VacationRequest{
			{UserName: "Mette Friis", Days: 5, Status: "approved"},
		},
		Contracts: []ContractInfo{
			{
				ProjectName:      "Havnefronten",
				ScopeDescription: "Anders Holm leads Havnefronten for Acme ApS.",
				MonthlyFee:       45000,
				HourCap:          80,
			},
		},
		Allocations: []AllocationRow{
			{UserName: "Mette Friis", ProjectName: "Havnefronten", AllocatedHours: 60},
		},
		SinglePersonRisks: []SinglePersonRisk{
			{ProjectName: "Havnefronten", UserName: "Anders Holm", SharePct: 78},
		},
		ProductivityGaps: []ProductivityGap{
			{UserName: "Mette Friis", ExpectedHours: 148, ActualHours: 120, GapHours: 28},
		},
	}
}

func TestAnonymize(t *testing.T) {
	t.Run("AlphabeticalAssignment", func(t *testing.T) {
		_, m := Anonymize(samplePackage())

		// "Anders Holm" sorts before "Mette Friis"
		if p, _ := m.EmployeePseudonym("Anders Holm"); p != "Employee A" {
			t.Errorf("Expected Employee A for Anders Holm, got %q", p)
		}
		if p, _ := m.EmployeePseudonym("Mette Friis"); p != "Employee B" {
			t.Errorf("Expected Employee B for Mette Friis, got %q", p)
		}
		if p, _ := m.ProjectPseudonym("Havnefronten"); p != "Project Alpha" {
			t.Errorf("Expected Project Alpha, got %q", p)
		}
	})

	t.Run("Determinism", func(t *testing.T) {
		_, first := Anonymize(samplePackage())
		_, second := Anonymize(samplePackage())

		if len(first.Employees) != len(second.Employees) {
			t.Fatal("Employee map sizes differ between identical runs")
		}
		for i := range first.Employees {
			if first.Employees[i] != second.Employees[i] {
				t.Errorf("Assignment %d differs: %+v vs %+v", i, first.Employees[i], second.Employees[i])
			}
		}
	})

	t.Run("Bijection", func(t *testing.T) {
		_, m := Anonymize(samplePackage())

		seen := make(map[string]bool)
		for _, pairing := range m.Employees {
			if seen[pairing.Pseudonym] {
				t.Errorf("Pseudonym %q assigned twice", pairing.Pseudonym)
			}
			seen[pairing.Pseudonym] = true

			real, ok := m.RealEmployee(pairing.Pseudonym)
			if !ok || real != pairing.Real {
				t.Errorf("Reverse lookup broken for %q: got %q", pairing.Pseudonym, real)
			}
		}
	})

	t.Run("OriginalUntouched", func(t *testing.T) {
		pkg := samplePackage()
		anonymized, _ := Anonymize(pkg)

		if pkg.Company.Name != "Acme ApS" || pkg.TeamMembers[0].Name != "Mette Friis" {
			t.Error("Original package was mutated")
		}
		if anonymized == pkg {
			t.Error("Anonymize must return a copy, not the original")
		}
		anonymized.TeamMembers[0].Name = "tampered"
		if pkg.TeamMembers[0].Name == "tampered" {
			t.Error("Clone aliases the original slice")
		}
	})

	t.Run("IdentifiersCleared", func(t *testing.T) {
		anonymized, _ := Anonymize(samplePackage())

		if anonymized.Company.ID != "" {
			t.Errorf("Company ID must be cleared, got %q", anonymized.Company.ID)
		}
		if anonymized.Company.Name != "The Company" {
			t.Errorf("Company name must be pseudonymized, got %q", anonymized.Company.Name)
		}
		for _, tm := range anonymized.TeamMembers {
			if tm.ID != "" {
				t.Errorf("Team member ID must be cleared, got %q", tm.ID)
			}
		}
	})

	t.Run("AllNameFieldsReplaced", func(t *testing.T) {
		anonymized, _ := Anonymize(samplePackage())

		leaked := func(s string) bool {
			return strings.Contains(s, "Anders") || strings.Contains(s, "Mette") ||
				strings.Contains(s, "Havnefronten") || strings.Contains(s, "Acme")
		}

		if leaked(anonymized.Workload[0].UserName) ||
			leaked(anonymized.Projects[0].Name) ||
			leaked(anonymized.Vacations[0].UserName) ||
			leaked(anonymized.Allocations[0].UserName) ||
			leaked(anonymized.Allocations[0].ProjectName) ||
			leaked(anonymized.SinglePersonRisks[0].UserName) ||
			leaked(anonymized.ProductivityGaps[0].UserName) {
			t.Errorf("Real name leaked in structured fields: %+v", anonymized)
		}
	})

	t.Run("NarrativeFieldScrubbed", func(t *testing.T) {
		anonymized, _ := Anonymize(samplePackage())

		scope := anonymized.Contracts[0].ScopeDescription
		if strings.Contains(scope, "Anders") || strings.Contains(scope, "Havnefronten") || strings.Contains(scope, "Acme") {
			t.Errorf("Scope description leaked real names: %q", scope)
		}
		if !strings.Contains(scope, "Employee A") || !strings.Contains(scope, "Project Alpha") || !strings.Contains(scope, "The Company") {
			t.Errorf("Scope description missing pseudonyms: %q", scope)
		}
	})

	t.Run("ProjectPoolOverflow", func(t *testing.T) {
		pkg := &InsightDataPackage{}
		for i := 0; i < 25; i++ {
			pkg.Projects = append(pkg.Projects, ProjectInfo{Name: fmt.Sprintf("Job %02d", i)})
		}
		_, m := Anonymize(pkg)

		if p, _ := m.ProjectPseudonym("Job 00"); p != "Project Alpha" {
			t.Errorf("First project should take the pool head, got %q", p)
		}
		if p, _ := m.ProjectPseudonym("Job 24"); p != "Project 25" {
			t.Errorf("Pool overflow should fall back to numbered form, got %q", p)
		}
	})

	t.Run("EmployeeTwoLetterFallback", func(t *testing.T) {
		pkg := &InsightDataPackage{}
		for i := 0; i < 28; i++ {
			pkg.TeamMembers = append(pkg.TeamMembers, TeamMember{Name: fmt.Sprintf("Person %02d", i)})
		}
		_, m := Anonymize(pkg)

		if p, _ := m.EmployeePseudonym("Person 25"); p != "Employee Z" {
			t.Errorf("26th employee should be Employee Z, got %q", p)
		}
		if p, _ := m.EmployeePseudonym("Person 26"); p != "Employee AA" {
			t.Errorf("27th employee should be Employee AA, got %q", p)
		}
		if p, _ := m.EmployeePseudonym("Person 27"); p != "Employee AB" {
			t.Errorf("28th employee should be Employee AB, got %q", p)
		}
	})
}

func TestDeanonymizeInsights(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		_, m := Anonymize(samplePackage())

		records := []InsightRecord{
			{
				Title:       "Employee A is overloaded",
				Description: "Employee A carries 78% of Project Alpha at The Company.",
				Suggestion:  "Shift hours from Employee A to Employee B.",
			},
		}

		restored := DeanonymizeInsights(records, m)

		out := restored[0].Title + " " + restored[0].Description + " " + restored[0].Suggestion
		if !strings.Contains(out, "Anders Holm") || !strings.Contains(out, "Mette Friis") ||
			!strings.Contains(out, "Havnefronten") || !strings.Contains(out, "Acme ApS") {
			t.Errorf("Round trip did not restore real names: %q", out)
		}
		if strings.Contains(out, "Employee ") || strings.Contains(out, "Project Alpha") || strings.Contains(out, "The Company") {
			t.Errorf("Residual pseudonyms after round trip: %q", out)
		}
	})

	t.Run("LongestPseudonymFirst", func(t *testing.T) {
		pkg := &InsightDataPackage{}
		for i := 0; i < 27; i++ {
			pkg.TeamMembers = append(pkg.TeamMembers, TeamMember{Name: fmt.Sprintf("Person %02d", i)})
		}
		_, m := Anonymize(pkg)

		restored := DeanonymizeInsights([]InsightRecord{
			{Title: "note", Description: "Employee AA and Employee A disagree."},
		}, m)

		desc := restored[0].Description
		if desc != "Person 26 and Person 00 disagree." {
			t.Errorf("Two-letter pseudonym partially matched: %q", desc)
		}
	})

	t.Run("InputNotMutated", func(t *testing.T) {
		_, m := Anonymize(samplePackage())
		records := []InsightRecord{{Title: "Employee A", Description: "about Employee A"}}

		DeanonymizeInsights(records, m)

		if records[0].Title != "Employee A" {
			t.Errorf("Input record mutated: %q", records[0].Title)
		}
	})

	t.Run("MapSurvivesJSONRoundTrip", func(t *testing.T) {
		_, m := Anonymize(samplePackage())

		decoded := &Map{
			CompanyName: m.CompanyName,
			Employees:   append([]Pairing(nil), m.Employees...),
			Projects:    append([]Pairing(nil), m.Projects...),
		}

		restored := DeanonymizeInsights([]InsightRecord{
			{Title: "x", Description: "Employee A on Project Alpha"},
		}, decoded)

		if !strings.Contains(restored[0].Description, "Anders Holm") {
			t.Errorf("Rebuilt map failed to reverse: %q", restored[0].Description)
		}
	})
}
