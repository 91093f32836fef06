package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propcare/internal/models"
	"propcare/internal/policy"
	"propcare/internal/repository"
)

func ids(items []models.Ticket) []string {
	out := make([]string, 0, len(items))
	for _, t := range items {
		out = append(out, t.ID)
	}
	return out
}

func TestListTicketsStaffSeesOnlyAssigned(t *testing.T) {
	w := newWorld(t)
	tk1 := w.ticket(t, w.m1, w.p1.ID, w.alice.ID)
	tk2 := w.ticket(t, w.m2, w.p2.ID, w.alice.ID)
	w.ticket(t, w.m1, w.p1.ID, "")

	items, total, err := w.ticketSvc.List(w.ctx, w.alice, TicketQuery{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{tk1.ID, tk2.ID}, ids(items))
	assert.Equal(t, 2, total)

	items, total, err = w.ticketSvc.List(w.ctx, w.bob, TicketQuery{})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}

func TestListTicketsStaffCannotWidenScope(t *testing.T) {
	w := newWorld(t)
	w.ticket(t, w.m1, w.p1.ID, w.alice.ID)

	items, _, err := w.ticketSvc.List(w.ctx, w.bob, TicketQuery{Assignee: w.alice.ID})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListTicketsManagerTransitiveOwnership(t *testing.T) {
	w := newWorld(t)
	p3 := w.property(t, w.m1, "Birch House")
	tk1 := w.ticket(t, w.m1, w.p1.ID, w.alice.ID)
	tk3 := w.ticket(t, w.m1, p3.ID, "")
	w.ticket(t, w.m2, w.p2.ID, w.alice.ID)
	staffFiled := w.ticket(t, w.bob, w.p1.ID, "")

	items, total, err := w.ticketSvc.List(w.ctx, w.m1, TicketQuery{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{tk1.ID, tk3.ID, staffFiled.ID}, ids(items))
	assert.Equal(t, 3, total)

	for _, it := range items {
		require.NotNil(t, it.Property)
		assert.NotEmpty(t, it.Property.Name)
	}

	// a manager with no properties sees nothing
	m3 := w.user(t, "Manager Three", "m3@example.com", models.RoleManager)
	items, _, err = w.ticketSvc.List(w.ctx, m3, TicketQuery{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListTicketsFilters(t *testing.T) {
	w := newWorld(t)
	tk := w.ticket(t, w.m1, w.p1.ID, w.alice.ID)
	other, err := w.ticketSvc.Create(w.ctx, w.m1, CreateTicketInput{
		PropertyID: w.p1.ID, Title: "Broken window", Description: "Lobby", Priority: models.PriorityHigh,
	})
	require.NoError(t, err)

	items, _, err := w.ticketSvc.List(w.ctx, w.m1, TicketQuery{Priority: models.PriorityHigh})
	require.NoError(t, err)
	assert.Equal(t, []string{other.ID}, ids(items))

	items, _, err = w.ticketSvc.List(w.ctx, w.m1, TicketQuery{Q: "tap"})
	require.NoError(t, err)
	assert.Equal(t, []string{tk.ID}, ids(items))

	items, _, err = w.ticketSvc.List(w.ctx, w.m1, TicketQuery{Assignee: w.alice.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{tk.ID}, ids(items))
}

func TestCreateTicketDefaults(t *testing.T) {
	w := newWorld(t)
	tk := w.ticket(t, w.m1, w.p1.ID, w.alice.ID)

	assert.Equal(t, models.TicketNew, tk.Status)
	assert.Equal(t, models.PriorityMedium, tk.Priority)
	assert.Equal(t, w.m1.ID, tk.CreatedBy)
	assert.Equal(t, "Manager One", tk.CreatedByName)
	assert.Equal(t, "Alice", tk.AssignedToName)
	assert.Equal(t, "Elm Court", tk.Property.Name)
	assert.Empty(t, tk.Comments)
}

func TestCreateTicketFailures(t *testing.T) {
	w := newWorld(t)
	cases := []struct {
		name string
		by   policy.Actor
		in   CreateTicketInput
		want error
	}{
		{"missing property", w.m1, CreateTicketInput{PropertyID: "nope", Title: "x", Description: "y"}, ErrNotFound},
		{"not the owner", w.m2, CreateTicketInput{PropertyID: w.p1.ID, Title: "x", Description: "y"}, ErrForbidden},
		{"assignee is a manager", w.m1, CreateTicketInput{PropertyID: w.p1.ID, Title: "x", Description: "y", AssignedTo: w.m2.ID}, ErrInvalidAssignment},
		{"assignee inactive", w.m1, CreateTicketInput{PropertyID: w.p1.ID, Title: "x", Description: "y", AssignedTo: w.carol.ID}, ErrInvalidAssignment},
		{"assignee unknown", w.m1, CreateTicketInput{PropertyID: w.p1.ID, Title: "x", Description: "y", AssignedTo: "ghost"}, ErrInvalidAssignment},
		{"staff assigning someone else", w.alice, CreateTicketInput{PropertyID: w.p1.ID, Title: "x", Description: "y", AssignedTo: w.bob.ID}, ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := w.ticketSvc.Create(w.ctx, tc.by, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	n, err := w.tickets.Count(w.ctx, repository.TicketFilter{})
	require.NoError(t, err)
	assert.Zero(t, n, "no failed create may persist a ticket")
}

func TestCreateTicketValidation(t *testing.T) {
	w := newWorld(t)
	_, err := w.ticketSvc.Create(w.ctx, w.m1, CreateTicketInput{
		PropertyID: w.p1.ID, Title: strings.Repeat("x", 101), Priority: "urgent",
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "title")
	assert.Contains(t, ve.Fields, "description")
	assert.Contains(t, ve.Fields, "priority")
}

func TestStaffFiledTicketIsSelfAssigned(t *testing.T) {
	w := newWorld(t)
	tk := w.ticket(t, w.alice, w.p1.ID, "")
	assert.Equal(t, w.alice.ID, tk.AssignedTo)

	got, err := w.ticketSvc.Get(w.ctx, w.alice, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, tk.ID, got.ID)
}

func TestGetTicketForbiddenVsNotFound(t *testing.T) {
	w := newWorld(t)
	tk := w.ticket(t, w.m1, w.p1.ID, w.alice.ID)

	_, err := w.ticketSvc.Get(w.ctx, w.m2, tk.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = w.ticketSvc.Get(w.ctx, w.bob, tk.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = w.ticketSvc.Get(w.ctx, w.m1, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := w.ticketSvc.Get(w.ctx, w.alice, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, tk.Title, got.Title)
}

func TestUpdateStatusIdempotent(t *testing.T) {
	w := newWorld(t)
	tk := w.ticket(t, w.m1, w.p1.ID, w.alice.ID)

	first, err := w.ticketSvc.Update(w.ctx, w.m1, tk.ID, TicketPatch{Status: ptr(models.TicketCompleted)})
	require.NoError(t, err)
	assert.Equal(t, models.TicketCompleted, first.Status)

	second, err := w.ticketSvc.Update(w.ctx, w.m1, tk.ID, TicketPatch{Status: ptr(models.TicketCompleted)})
	require.NoError(t, err)
	assert.Equal(t, models.TicketCompleted, second.Status)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))

	stored, err := w.tickets.Get(w.ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketCompleted, stored.Status)
	assert.Equal(t, second.UpdatedAt, stored.UpdatedAt)
}

func TestUpdateAnyTransitionAllowed(t *testing.T) {
	w := newWorld(t)
	tk := w.ticket(t, w.m1, w.p1.ID, w.alice.ID)

	for _, s := range []string{models.TicketCompleted, models.TicketNew, models.TicketInProgress, models.TicketNew} {
		got, err := w.ticketSvc.Update(w.ctx, w.alice, tk.ID, TicketPatch{Status: ptr(s)})
		require.NoError(t, err)
		assert.Equal(t, s, got.Status)
	}

	_, err := w.ticketSvc.Update(w.ctx, w.alice, tk.ID, TicketPatch{Status: ptr("closed")})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestStaffUpdateRestriction(t *testing.T) {
	w := newWorld(t)
	tk := w.ticket(t, w.m1, w.p1.ID, w.alice.ID)

	_, err := w.ticketSvc.Update(w.ctx, w.alice, tk.ID, TicketPatch{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = w.ticketSvc.Update(w.ctx, w.alice, tk.ID, TicketPatch{Status: ptr(models.TicketInProgress), Priority: ptr(models.PriorityHigh)})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = w.ticketSvc.Update(w.ctx, w.alice, tk.ID, TicketPatch{AssignedTo: ptr(w.bob.ID)})
	assert.ErrorIs(t, err, ErrForbidden)

	stored, err := w.tickets.Get(w.ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Leaking tap", stored.Title)
	assert.Equal(t, models.TicketNew, stored.Status, "forbidden update must not partially apply")

	got, err := w.ticketSvc.Update(w.ctx, w.alice, tk.ID, TicketPatch{Status: ptr(models.TicketInProgress)})
	require.NoError(t, err)
	assert.Equal(t, models.TicketInProgress, got.Status)

	_, err = w.ticketSvc.Update(w.ctx, w.bob, tk.ID, TicketPatch{Status: ptr(models.TicketCompleted)})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReassign(t *testing.T) {
	w := newWorld(t)
	tk := w.ticket(t, w.m1, w.p1.ID, w.alice.ID)

	got, err := w.ticketSvc.Update(w.ctx, w.m1, tk.ID, TicketPatch{AssignedTo: ptr(w.bob.ID)})
	require.NoError(t, err)
	assert.Equal(t, w.bob.ID, got.AssignedTo)
	assert.Equal(t, "Bob", got.AssignedToName)

	_, err = w.ticketSvc.Get(w.ctx, w.alice, tk.ID)
	assert.ErrorIs(t, err, ErrForbidden, "previous assignee loses visibility")

	_, err = w.ticketSvc.Update(w.ctx, w.m1, tk.ID, TicketPatch{AssignedTo: ptr(w.carol.ID)})
	assert.ErrorIs(t, err, ErrInvalidAssignment)

	_, err = w.ticketSvc.Update(w.ctx, w.m1, tk.ID, TicketPatch{AssignedTo: ptr(w.m1.ID)})
	assert.ErrorIs(t, err, ErrInvalidAssignment)

	got, err = w.ticketSvc.Update(w.ctx, w.m1, tk.ID, TicketPatch{AssignedTo: ptr("")})
	require.NoError(t, err)
	assert.Empty(t, got.AssignedTo)

	_, err = w.ticketSvc.Update(w.ctx, w.m2, tk.ID, TicketPatch{Title: ptr("hijack")})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAddCommentsInOrder(t *testing.T) {
	w := newWorld(t)
	tk := w.ticket(t, w.m1, w.p1.ID, w.alice.ID)

	_, err := w.ticketSvc.AddComment(w.ctx, w.m1, tk.ID, "a")
	require.NoError(t, err)
	got, err := w.ticketSvc.AddComment(w.ctx, w.alice, tk.ID, "b")
	require.NoError(t, err)

	require.Len(t, got.Comments, 2)
	assert.Equal(t, "a", got.Comments[0].Text)
	assert.Equal(t, w.m1.ID, got.Comments[0].CreatedBy)
	assert.Equal(t, "Manager One", got.Comments[0].CreatedByName)
	assert.Equal(t, "b", got.Comments[1].Text)
	assert.Equal(t, w.alice.ID, got.Comments[1].CreatedBy)
	assert.Equal(t, "Alice", got.Comments[1].CreatedByName)
	assert.False(t, got.Comments[1].CreatedAt.Before(got.Comments[0].CreatedAt))
	assert.NotEqual(t, got.Comments[0].ID, got.Comments[1].ID)
}

func TestAddCommentFailures(t *testing.T) {
	w := newWorld(t)
	tk := w.ticket(t, w.m1, w.p1.ID, w.alice.ID)

	_, err := w.ticketSvc.AddComment(w.ctx, w.m1, tk.ID, "   ")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "text")

	_, err = w.ticketSvc.AddComment(w.ctx, w.bob, tk.ID, "hi")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = w.ticketSvc.AddComment(w.ctx, w.m2, tk.ID, "hi")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = w.ticketSvc.AddComment(w.ctx, w.m1, "missing", "hi")
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := w.tickets.Get(w.ctx, tk.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Comments)
}

func TestDeleteTicket(t *testing.T) {
	w := newWorld(t)
	tk := w.ticket(t, w.m1, w.p1.ID, w.alice.ID)
	withImage, err := w.ticketSvc.SetImage(w.ctx, w.m1, tk.ID, "leak.png", strings.NewReader("img"))
	require.NoError(t, err)
	require.NotEmpty(t, withImage.ImageURL)

	assert.ErrorIs(t, w.ticketSvc.Delete(w.ctx, w.alice, tk.ID), ErrForbidden)
	assert.ErrorIs(t, w.ticketSvc.Delete(w.ctx, w.m2, tk.ID), ErrForbidden)

	w.images.failDelete = true
	require.NoError(t, w.ticketSvc.Delete(w.ctx, w.m1, tk.ID), "image cleanup failure is not fatal")
	assert.Contains(t, w.images.deleted, withImage.ImageURL)

	_, err = w.ticketSvc.Get(w.ctx, w.m1, tk.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, w.ticketSvc.Delete(w.ctx, w.m1, tk.ID), ErrNotFound)
}

func TestSetTicketImageReplacesOld(t *testing.T) {
	w := newWorld(t)
	tk := w.ticket(t, w.m1, w.p1.ID, w.alice.ID)

	first, err := w.ticketSvc.SetImage(w.ctx, w.m1, tk.ID, "a.png", strings.NewReader("1"))
	require.NoError(t, err)
	second, err := w.ticketSvc.SetImage(w.ctx, w.m1, tk.ID, "b.png", strings.NewReader("2"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ImageURL, second.ImageURL)
	assert.Equal(t, []string{first.ImageURL}, w.images.deleted)

	_, err = w.ticketSvc.SetImage(w.ctx, w.alice, tk.ID, "c.png", strings.NewReader("3"))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSummaryScoped(t *testing.T) {
	w := newWorld(t)
	w.ticket(t, w.m1, w.p1.ID, w.alice.ID)
	done := w.ticket(t, w.m1, w.p1.ID, "")
	_, err := w.ticketSvc.Update(w.ctx, w.m1, done.ID, TicketPatch{Status: ptr(models.TicketCompleted)})
	require.NoError(t, err)
	_, err = w.ticketSvc.Create(w.ctx, w.m1, CreateTicketInput{
		PropertyID: w.p1.ID, Title: "Gas smell", Description: "Boiler room", Priority: models.PriorityHigh,
	})
	require.NoError(t, err)
	w.ticket(t, w.m2, w.p2.ID, "")

	sum, err := w.ticketSvc.Summary(w.ctx, w.m1)
	require.NoError(t, err)
	assert.Equal(t, TicketSummary{Total: 3, New: 2, Completed: 1, Open: 2, HighOpen: 1}, sum)

	sum, err = w.ticketSvc.Summary(w.ctx, w.alice)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Total)
}

func TestAssignmentVisibilityScenario(t *testing.T) {
	w := newWorld(t)
	tk1 := w.ticket(t, w.m1, w.p1.ID, w.alice.ID)

	for _, tc := range []struct {
		name  string
		actor policy.Actor
		sees  bool
	}{
		{"bob", w.bob, false},
		{"alice", w.alice, true},
		{"m1", w.m1, true},
		{"m2", w.m2, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			items, _, err := w.ticketSvc.List(w.ctx, tc.actor, TicketQuery{})
			require.NoError(t, err)
			if tc.sees {
				assert.Contains(t, ids(items), tk1.ID)
			} else {
				assert.NotContains(t, ids(items), tk1.ID)
			}
		})
	}
}
