package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/ai"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/pkg/apperrors"
)

func validAnalysis() *ai.Analysis {
	return &ai.Analysis{
		CategoryID:         1,
		CategoryName:       "Hardware",
		PriorityID:         2,
		PriorityName:       "Média",
		SuggestedTitle:     "Notebook não liga",
		Justification:      "Falha de equipamento físico.",
		ConfidenceCategory: 0.9,
		ConfidencePriority: 0.8,
	}
}

func TestTriageService_Analyze_CreatesAssignedTicket(t *testing.T) {
	f := newFixture()
	classifier := &fakeClassifier{analysis: validAnalysis()}
	svc := f.triageSvc(classifier)

	result, err := svc.Analyze(context.Background(), 1, "meu notebook não liga")
	require.NoError(t, err)
	assert.Equal(t, 1, classifier.calls)

	require.NotNil(t, result.Ticket)
	assert.Equal(t, "Notebook não liga", result.Ticket.Title)
	assert.Equal(t, "meu notebook não liga", result.Ticket.Description)
	assert.Equal(t, int64(1), result.Ticket.CategoryID)
	assert.Equal(t, domain.StatusOpen, result.Ticket.StatusID)

	// User 2 is the active admin specialized in category 1.
	require.NotNil(t, result.Technician)
	assert.Equal(t, int64(2), result.Technician.ID)
	require.NotNil(t, result.Ticket.TechnicianID)
	assert.Equal(t, int64(2), *result.Ticket.TechnicianID)
}

func TestTriageService_Analyze_NoSpecialistLeavesUnassigned(t *testing.T) {
	f := newFixture()
	analysis := validAnalysis()
	analysis.CategoryID = 2
	analysis.CategoryName = "Software"
	svc := f.triageSvc(&fakeClassifier{analysis: analysis})

	result, err := svc.Analyze(context.Background(), 1, "erro no sistema de notas")
	require.NoError(t, err)
	assert.Nil(t, result.Technician)
	assert.Nil(t, result.Ticket.TechnicianID)
}

func TestTriageService_Analyze_ClassifierFailureCreatesNothing(t *testing.T) {
	f := newFixture()
	svc := f.triageSvc(&fakeClassifier{
		err: apperrors.NewExternalServiceError("gemini", errors.New("timeout")),
	})

	_, err := svc.Analyze(context.Background(), 1, "problema qualquer")
	require.Error(t, err)
	assert.True(t, apperrors.IsExternal(err))
	assert.Equal(t, 500, apperrors.ToDomainError(err).HTTPStatus)

	tickets, listErr := f.ticketSvc.List(context.Background(), TicketListFilter{})
	require.NoError(t, listErr)
	assert.Empty(t, tickets, "no ticket may exist after a failed classification")
}

func TestTriageService_Analyze_UnknownCatalogIDsRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("category outside catalog", func(t *testing.T) {
		analysis := validAnalysis()
		analysis.CategoryID = 77
		_, err := f.triageSvc(&fakeClassifier{analysis: analysis}).Analyze(ctx, 1, "x")
		require.Error(t, err)
		assert.True(t, apperrors.IsExternal(err))
	})
	t.Run("inactive category treated as unknown", func(t *testing.T) {
		analysis := validAnalysis()
		analysis.CategoryID = 3
		_, err := f.triageSvc(&fakeClassifier{analysis: analysis}).Analyze(ctx, 1, "x")
		require.Error(t, err)
		assert.True(t, apperrors.IsExternal(err))
	})
	t.Run("priority outside catalog", func(t *testing.T) {
		analysis := validAnalysis()
		analysis.PriorityID = 77
		_, err := f.triageSvc(&fakeClassifier{analysis: analysis}).Analyze(ctx, 1, "x")
		require.Error(t, err)
		assert.True(t, apperrors.IsExternal(err))
	})

	tickets, err := f.ticketSvc.List(ctx, TicketListFilter{})
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestTriageService_Analyze_DescriptionValidation(t *testing.T) {
	f := newFixture()
	classifier := &fakeClassifier{analysis: validAnalysis()}
	svc := f.triageSvc(classifier)
	ctx := context.Background()

	_, err := svc.Analyze(ctx, 1, "   ")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.Analyze(ctx, 1, strings.Repeat("a", 2001))
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	assert.Zero(t, classifier.calls, "invalid input must not reach the classifier")
}

func TestTriageService_Analyze_TruncatesOverlongSuggestedTitle(t *testing.T) {
	f := newFixture()
	analysis := validAnalysis()
	analysis.SuggestedTitle = strings.Repeat("t", 300)
	svc := f.triageSvc(&fakeClassifier{analysis: analysis})

	result, err := svc.Analyze(context.Background(), 1, "descrição longa de problema")
	require.NoError(t, err)
	assert.Len(t, result.Ticket.Title, 200)
}

func TestTriageService_Analyze_TruncationKeepsTitleValidUTF8(t *testing.T) {
	f := newFixture()
	analysis := validAnalysis()
	// 1 ASCII byte + 150 two-byte runes = 301 bytes; a byte cut at 200
	// would land mid-rune.
	analysis.SuggestedTitle = "x" + strings.Repeat("é", 150)
	svc := f.triageSvc(&fakeClassifier{analysis: analysis})

	result, err := svc.Analyze(context.Background(), 1, "descrição longa de problema")
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(result.Ticket.Title))
	assert.LessOrEqual(t, len(result.Ticket.Title), 200)
	assert.True(t, strings.HasPrefix(result.Ticket.Title, "xé"))
}
