package model

import (
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
)

// Resolution is a candidate fix with trade-offs. At most one resolution per
// issue is marked agreed; agreeing on one clears all others.
type Resolution struct {
	ID          types.ResolutionID `json:"id" firestore:"id"`
	Solution    string             `json:"solution" firestore:"solution"`
	Pros        string             `json:"pros" firestore:"pros"`
	Cons        string             `json:"cons" firestore:"cons"`
	Concerns    string             `json:"concerns" firestore:"concerns"`
	EffortHours int                `json:"effort" firestore:"effort"`
	IsAgreed    bool               `json:"isAgreed" firestore:"isAgreed"`
}

// NewResolution creates a resolution proposal. Proposals always start out
// not agreed.
func NewResolution(solution, pros, cons, concerns string, effortHours int) Resolution {
	return Resolution{
		ID:          types.NewResolutionID(),
		Solution:    solution,
		Pros:        pros,
		Cons:        cons,
		Concerns:    concerns,
		EffortHours: effortHours,
	}
}
