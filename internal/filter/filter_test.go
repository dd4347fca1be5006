package filter_test

import (
	"testing"

	"events-api/internal/filter"
	"events-api/internal/model"

	"github.com/stretchr/testify/assert"
)

func sampleEvents() []*model.Event {
	return []*model.Event{
		{ID: "1", Organizer: "Tech Events Inc.", Status: model.EventStatusActive},
		{ID: "2", Organizer: "Tech Events Inc.", Status: model.EventStatusDraft},
		{ID: "3", Organizer: "Music Co", Status: model.EventStatusActive},
		{ID: "4", Organizer: "tech meetup", Status: model.EventStatusActive},
	}
}

func matchingIDs(p filter.Predicate, events []*model.Event) []string {
	ids := []string{}
	for _, e := range events {
		if p.Match(e) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func TestPredicate_Empty(t *testing.T) {
	p := filter.And()

	assert.True(t, p.IsEmpty())
	assert.Equal(t, []string{"1", "2", "3", "4"}, matchingIDs(p, sampleEvents()))
	assert.True(t, filter.Predicate{}.Match(&model.Event{}))
}

func TestPredicate_And(t *testing.T) {
	t.Run("Status only", func(t *testing.T) {
		p := filter.And(filter.StatusEquals(model.EventStatusActive))
		assert.Equal(t, []string{"1", "3", "4"}, matchingIDs(p, sampleEvents()))
	})

	t.Run("Organizer substring is case-sensitive", func(t *testing.T) {
		p := filter.And(filter.OrganizerContains("Tech"))
		assert.Equal(t, []string{"1", "2"}, matchingIDs(p, sampleEvents()))
	})

	t.Run("Both conditions", func(t *testing.T) {
		p := filter.And(filter.StatusEquals(model.EventStatusActive), filter.OrganizerContains("Tech"))
		assert.Equal(t, []string{"1"}, matchingIDs(p, sampleEvents()))
	})
}

func TestPredicate_Commutative(t *testing.T) {
	status := filter.StatusEquals(model.EventStatusActive)
	organizer := filter.OrganizerContains("Tech")

	a := filter.And(status, organizer)
	b := filter.And(organizer, status)

	assert.Equal(t, a, b)
	assert.Equal(t, a.Conditions(), b.Conditions())
	assert.Equal(t, matchingIDs(a, sampleEvents()), matchingIDs(b, sampleEvents()))
}

func TestFromParams(t *testing.T) {
	assert.True(t, filter.FromParams("", "").IsEmpty())
	assert.Len(t, filter.FromParams(model.EventStatusDraft, "").Conditions(), 1)
	assert.Equal(t,
		filter.And(filter.OrganizerContains("x"), filter.StatusEquals(model.EventStatusDraft)),
		filter.FromParams(model.EventStatusDraft, "x"),
	)
}

func TestPredicate_Split(t *testing.T) {
	p := filter.And(filter.StatusEquals(model.EventStatusActive), filter.OrganizerContains("Tech"))

	server, local := p.Split(func(c filter.Condition) bool { return c.Operator == filter.OpEquals })

	assert.Equal(t, []filter.Condition{filter.StatusEquals(model.EventStatusActive)}, server.Conditions())
	assert.Equal(t, []filter.Condition{filter.OrganizerContains("Tech")}, local.Conditions())
}
