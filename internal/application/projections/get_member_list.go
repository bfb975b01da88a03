package projections

import (
	"context"
	"time"

	"fitpro/internal/adapters/storage/account"
	domainAccount "fitpro/internal/domain/account"
)

// InactiveLabel is shown for members without an active membership.
const InactiveLabel = "Inactive"

// GetMemberListQuery carries query parameters.
type GetMemberListQuery struct {
	Limit  int
	Offset int
}

// MembershipSummary is the active membership shown beside a member.
type MembershipSummary struct {
	ID        string
	PlanID    string
	PlanName  string
	StartDate string
	EndDate   string
	Status    string
}

// MemberRow is one line of the admin members table.
type MemberRow struct {
	ID         string
	FullName   string
	Email      string
	Phone      string
	JoinedAt   time.Time
	Membership *MembershipSummary
	Status     string // plan status, or InactiveLabel
}

// GetMemberListResult carries the query result.
type GetMemberListResult struct {
	Members []MemberRow
}

// GetMemberListDeps holds dependencies for GetMemberList.
type GetMemberListDeps struct {
	AccountStore    AccountStore
	ProfileStore    ProfileStore
	MembershipStore MembershipStore
	PlanStore       PlanStore
}

// QueryGetMemberList lists member-role users with profile and active membership.
// PRE: Valid query parameters
// POST: Returns members newest first; four batched lookups regardless of page size
func QueryGetMemberList(ctx context.Context, query GetMemberListQuery, deps GetMemberListDeps) (GetMemberListResult, error) {
	if query.Limit <= 0 {
		query.Limit = 100
	}
	accts, err := deps.AccountStore.List(ctx, account.ListFilter{
		Limit:  query.Limit,
		Offset: query.Offset,
		Role:   domainAccount.RoleMember,
	})
	if err != nil {
		return GetMemberListResult{}, err
	}
	if len(accts) == 0 {
		return GetMemberListResult{Members: []MemberRow{}}, nil
	}

	ids := make([]string, len(accts))
	for i, a := range accts {
		ids[i] = a.ID
	}
	profiles, err := deps.ProfileStore.GetMany(ctx, ids)
	if err != nil {
		return GetMemberListResult{}, err
	}
	active, err := deps.MembershipStore.ListActiveByUsers(ctx, ids)
	if err != nil {
		return GetMemberListResult{}, err
	}
	planIDs := make([]string, 0, len(active))
	for _, m := range active {
		planIDs = append(planIDs, m.PlanID)
	}
	plans, err := deps.PlanStore.GetMany(ctx, uniq(planIDs))
	if err != nil {
		return GetMemberListResult{}, err
	}

	rows := make([]MemberRow, 0, len(accts))
	for _, a := range accts {
		p := profiles[a.ID]
		row := MemberRow{
			ID:       a.ID,
			FullName: p.FullName,
			Email:    a.Email,
			Phone:    p.Phone,
			JoinedAt: a.CreatedAt,
			Status:   InactiveLabel,
		}
		if m, ok := active[a.ID]; ok {
			row.Membership = &MembershipSummary{
				ID:        m.ID,
				PlanID:    m.PlanID,
				PlanName:  plans[m.PlanID].Name,
				StartDate: m.StartDate,
				EndDate:   m.EndDate,
				Status:    m.Status,
			}
			row.Status = m.Status
		}
		rows = append(rows, row)
	}
	return GetMemberListResult{Members: rows}, nil
}
