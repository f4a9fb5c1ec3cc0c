package anonymize

import "time"

// InsightDataPackage is the structured company-performance payload assembled
// by the data-gathering layer. This package treats it as a deep-cloneable
// tree with known name-bearing fields; it does not interpret the business
// semantics of the numbers.
type InsightDataPackage struct {
	Company           CompanyInfo        `json:"company"`
	TeamMembers       []TeamMember       `json:"teamMembers"`
	Workload          []WorkloadRow      `json:"workload"`
	Projects          []ProjectInfo      `json:"projects"`
	Vacations         []VacationRequest  `json:"vacations"`
	Contracts         []ContractInfo     `json:"contracts"`
	Allocations       []AllocationRow    `json:"allocations"`
	SinglePersonRisks []SinglePersonRisk `json:"singlePersonRisks"`
	ProductivityGaps  []ProductivityGap  `json:"productivityGaps"`
}

// CompanyInfo identifies the tenant. ID is cleared during anonymization; it
// is not needed downstream and would leak indirectly.
type CompanyInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeamMember is one employee on the roster.
type TeamMember struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	WeeklyHours float64 `json:"weeklyHours"`
}

// WorkloadRow summarizes one employee's tracked time.
type WorkloadRow struct {
	UserName       string  `json:"userName"`
	BillableHours  float64 `json:"billableHours"`
	TotalHours     float64 `json:"totalHours"`
	UtilizationPct float64 `json:"utilizationPct"`
}

// ProjectInfo summarizes one project's budget consumption.
type ProjectInfo struct {
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	BudgetHours float64 `json:"budgetHours"`
	SpentHours  float64 `json:"spentHours"`
}

// VacationRequest is one approved or pending absence.
type VacationRequest struct {
	UserName  string    `json:"userName"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Days      float64   `json:"days"`
	Status    string    `json:"status"`
}

// ContractInfo carries the commercial terms of one project contract.
// ScopeDescription is free narrative text and gets a full substring scrub.
type ContractInfo struct {
	ProjectName      string  `json:"projectName"`
	ScopeDescription string  `json:"scopeDescription"`
	MonthlyFee       float64 `json:"monthlyFee"`
	HourCap          float64 `json:"hourCap"`
}

// AllocationRow assigns an employee to a project.
type AllocationRow struct {
	UserName       string  `json:"userName"`
	ProjectName    string  `json:"projectName"`
	AllocatedHours float64 `json:"allocatedHours"`
}

// SinglePersonRisk flags a project carried largely by one person.
type SinglePersonRisk struct {
	ProjectName string  `json:"projectName"`
	UserName    string  `json:"userName"`
	SharePct    float64 `json:"sharePct"`
}

// ProductivityGap compares expected and tracked hours for one employee.
type ProductivityGap struct {
	UserName      string  `json:"userName"`
	ExpectedHours float64 `json:"expectedHours"`
	ActualHours   float64 `json:"actualHours"`
	GapHours      float64 `json:"gapHours"`
}

// InsightRecord is one LLM-generated insight. Title and Description are
// required; the rest is optional.
type InsightRecord struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Suggestion    string   `json:"suggestion,omitempty"`
	RelatedHours  *float64 `json:"relatedHours,omitempty"`
	RelatedAmount *float64 `json:"relatedAmount,omitempty"`
}
