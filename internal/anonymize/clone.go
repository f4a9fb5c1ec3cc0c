package anonymize

// Clone returns a structural deep copy with no aliasing to the original.
// The original package must remain untouched for callers that still need
// real data. All row types are plain value structs, so copying the slices
// copies everything; field types are preserved exactly.
func (p *InsightDataPackage) Clone() *InsightDataPackage {
	if p == nil {
		return nil
	}

	out := *p
	out.TeamMembers = append([]TeamMember(nil), p.TeamMembers...)
	out.Workload = append([]WorkloadRow(nil), p.Workload...)
	out.Projects = append([]ProjectInfo(nil), p.Projects...)
	out.Vacations = append([]VacationRequest(nil), p.Vacations...)
	out.Contracts = append([]ContractInfo(nil), p.Contracts...)
	out.Allocations = append([]AllocationRow(nil), p.Allocations...)
	out.SinglePersonRisks = append([]SinglePersonRisk(nil), p.SinglePersonRisks...)
	out.ProductivityGaps = append([]ProductivityGap(nil), p.ProductivityGaps...)
	return &out
}
