package model

import (
	"fmt"
	"slices"
)

// Assignment is a directed santa -> recipient edge.
type Assignment struct {
	Santa     Participant
	Recipient Participant
}

func (a Assignment) String() string {
	return fmt.Sprintf("%-12s -> %s", a.Santa.Name, a.Recipient.Name)
}

// Cycle is a single ring over all participants: order[k] gives to order[k+1],
// and the last participant gives to the first.
type Cycle struct {
	order []Participant
	index map[string]int
}

// NewCycle builds a Cycle from a ring order. The order is copied.
func NewCycle(order []Participant) Cycle {
	c := Cycle{
		order: slices.Clone(order),
		index: make(map[string]int, len(order)),
	}
	for i, p := range c.order {
		c.index[p.Key()] = i
	}
	return c
}

// Len returns the number of participants in the ring.
func (c Cycle) Len() int { return len(c.order) }

// Order returns a copy of the ring order.
func (c Cycle) Order() []Participant { return slices.Clone(c.order) }

// RecipientOf returns the participant that santa gives to.
func (c Cycle) RecipientOf(santa Participant) (Participant, bool) {
	i, ok := c.index[santa.Key()]
	if !ok || len(c.order) == 0 {
		return Participant{}, false
	}
	return c.order[(i+1)%len(c.order)], true
}

// Assignments lists every edge of the ring, ordered by santa name.
func (c Cycle) Assignments() []Assignment {
	out := make([]Assignment, 0, len(c.order))
	for _, santa := range SortParticipants(c.order) {
		recipient, _ := c.RecipientOf(santa)
		out = append(out, Assignment{Santa: santa, Recipient: recipient})
	}
	return out
}
