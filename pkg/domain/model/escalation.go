package model

import (
	"github.com/Alexwilliam112/issue-tracker/pkg/domain/types"
)

// Stakeholder is a person engaged in an escalation layer. At most one
// stakeholder per layer is the decision maker.
type Stakeholder struct {
	Person          Reference `json:"person" firestore:"person"`
	IsDecisionMaker bool      `json:"isDecisionMaker" firestore:"isDecisionMaker"`
}

// EscalationLayer is an ordered tier of stakeholders engaged to resolve an
// issue at increasing severity. Layer numbers are 1-based and equal the
// layer's position in the issue's escalation list.
type EscalationLayer struct {
	ID           types.LayerID     `json:"id" firestore:"id"`
	Layer        int               `json:"layer" firestore:"layer"`
	Status       types.LayerStatus `json:"status" firestore:"status"`
	Stakeholders []Stakeholder     `json:"stakeholders" firestore:"stakeholders"`
	Remarks      string            `json:"remarks,omitempty" firestore:"remarks"`
}

// NewEscalationLayer creates a pending layer with the given 1-based number
// and no stakeholders.
func NewEscalationLayer(layerNumber int) EscalationLayer {
	return EscalationLayer{
		ID:     types.NewLayerID(),
		Layer:  layerNumber,
		Status: types.LayerStatusPending,
	}
}

// DecisionMaker returns the stakeholder flagged as decision maker, or nil.
func (l *EscalationLayer) DecisionMaker() *Stakeholder {
	for i := range l.Stakeholders {
		if l.Stakeholders[i].IsDecisionMaker {
			return &l.Stakeholders[i]
		}
	}
	return nil
}

// HasStakeholder reports whether the person is already part of the layer.
func (l *EscalationLayer) HasStakeholder(personID string) bool {
	for _, s := range l.Stakeholders {
		if s.Person.ID == personID {
			return true
		}
	}
	return false
}

func (l EscalationLayer) clone() EscalationLayer {
	c := l
	c.Stakeholders = append([]Stakeholder(nil), l.Stakeholders...)
	return c
}
