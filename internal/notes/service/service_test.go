package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"noteboard/internal/notes/models"
	dErrors "noteboard/pkg/domain-errors"
	"noteboard/pkg/platform/sentinel"
)

type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockStore *MockNoteStore
	mockCache *MockListingCache
	mockAudit *MockAuditPublisher
	service   *Service
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = NewMockNoteStore(s.ctrl)
	s.mockCache = NewMockListingCache(s.ctrl)
	s.mockAudit = NewMockAuditPublisher(s.ctrl)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.service = New(s.mockStore,
		WithLogger(logger),
		WithCache(s.mockCache),
		WithAuditPublisher(s.mockAudit),
	)
	s.ctx = context.Background()
}

func (s *ServiceSuite) pendingNote(recipient string) *models.Note {
	note, err := models.NewNote(uuid.New(), "Hi!", recipient, "", time.Now())
	s.Require().NoError(err)
	return note
}

func (s *ServiceSuite) TestSubmit_Validation() {
	s.Run("empty body creates no record", func() {
		_, err := s.service.Submit(s.ctx, "   ", "alice", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("missing receiver creates no record", func() {
		_, err := s.service.Submit(s.ctx, "Hi!", "", "bob")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestSubmit_StorageFailure() {
	cause := errors.New("connection reset")
	s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).Return(cause)

	_, err := s.service.Submit(s.ctx, "Hi!", "alice", "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	// The store's message must pass through untouched.
	s.ErrorIs(err, cause)
	s.Contains(err.Error(), "connection reset")
}

func (s *ServiceSuite) TestListApproved() {
	s.Run("missing receiver returns validation error", func() {
		_, err := s.service.ListApproved(s.ctx, "  ")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("cache hit skips store", func() {
		cached := []*models.Note{s.pendingNote("alice")}
		s.mockCache.EXPECT().Get(gomock.Any(), "alice").Return(cached, true)

		notes, err := s.service.ListApproved(s.ctx, "alice")
		s.Require().NoError(err)
		s.Equal(cached, notes)
	})

	s.Run("cache miss reads store and populates cache", func() {
		fromStore := []*models.Note{s.pendingNote("alice")}
		s.mockCache.EXPECT().Get(gomock.Any(), "alice").Return(nil, false)
		s.mockStore.EXPECT().ListByRecipient(gomock.Any(), "alice", true).Return(fromStore, nil)
		s.mockCache.EXPECT().Set(gomock.Any(), "alice", fromStore)

		notes, err := s.service.ListApproved(s.ctx, "alice")
		s.Require().NoError(err)
		s.Equal(fromStore, notes)
	})

	s.Run("store failure returns no notes, not partial data", func() {
		s.mockCache.EXPECT().Get(gomock.Any(), "alice").Return(nil, false)
		s.mockStore.EXPECT().ListByRecipient(gomock.Any(), "alice", true).Return(nil, errors.New("read failed"))

		notes, err := s.service.ListApproved(s.ctx, "alice")
		s.Require().Error(err)
		s.Nil(notes)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestListPending_Authorization() {
	s.Run("missing receiver returns validation error", func() {
		_, err := s.service.ListPending(s.ctx, "alice", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("anonymous requester is unauthorized", func() {
		_, err := s.service.ListPending(s.ctx, "", "alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("requester other than recipient is forbidden", func() {
		_, err := s.service.ListPending(s.ctx, "bob", "alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("recipient sees own queue", func() {
		queue := []*models.Note{s.pendingNote("alice")}
		s.mockStore.EXPECT().ListByRecipient(gomock.Any(), "alice", false).Return(queue, nil)

		notes, err := s.service.ListPending(s.ctx, "alice", "alice")
		s.Require().NoError(err)
		s.Equal(queue, notes)
	})
}

func (s *ServiceSuite) TestApprove() {
	s.Run("unknown note returns not found", func() {
		noteID := uuid.New()
		s.mockStore.EXPECT().FindByID(gomock.Any(), noteID).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Approve(s.ctx, noteID, "alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("non-recipient is forbidden and state unchanged", func() {
		note := s.pendingNote("alice")
		s.mockStore.EXPECT().FindByID(gomock.Any(), note.ID).Return(note, nil)
		// No SetApproved expectation: the write must not happen.

		_, err := s.service.Approve(s.ctx, note.ID, "bob")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("anonymous requester is unauthorized", func() {
		_, err := s.service.Approve(s.ctx, uuid.New(), "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("approves pending note and invalidates cache", func() {
		note := s.pendingNote("alice")
		approved := *note
		approved.ApplyApproval()

		s.mockStore.EXPECT().FindByID(gomock.Any(), note.ID).Return(note, nil)
		s.mockStore.EXPECT().SetApproved(gomock.Any(), note.ID).Return(&approved, nil)
		s.mockCache.EXPECT().Invalidate(gomock.Any(), "alice")
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(true)

		got, err := s.service.Approve(s.ctx, note.ID, "alice")
		s.Require().NoError(err)
		s.True(got.Approved)
	})

	s.Run("re-approving is a no-op success", func() {
		note := s.pendingNote("alice")
		note.ApplyApproval()
		s.mockStore.EXPECT().FindByID(gomock.Any(), note.ID).Return(note, nil)
		// No write, no invalidation, no audit event for a no-op.

		got, err := s.service.Approve(s.ctx, note.ID, "alice")
		s.Require().NoError(err)
		s.True(got.Approved)
	})

	s.Run("store failure leaves note unapproved", func() {
		note := s.pendingNote("alice")
		s.mockStore.EXPECT().FindByID(gomock.Any(), note.ID).Return(note, nil)
		s.mockStore.EXPECT().SetApproved(gomock.Any(), note.ID).Return(nil, errors.New("write failed"))

		_, err := s.service.Approve(s.ctx, note.ID, "alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("concurrent delete surfaces as not found", func() {
		note := s.pendingNote("alice")
		s.mockStore.EXPECT().FindByID(gomock.Any(), note.ID).Return(note, nil)
		s.mockStore.EXPECT().SetApproved(gomock.Any(), note.ID).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Approve(s.ctx, note.ID, "alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestDelete() {
	s.Run("unknown note returns not found", func() {
		noteID := uuid.New()
		s.mockStore.EXPECT().FindByID(gomock.Any(), noteID).Return(nil, sentinel.ErrNotFound)

		err := s.service.Delete(s.ctx, noteID, "alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("non-recipient is forbidden", func() {
		note := s.pendingNote("alice")
		s.mockStore.EXPECT().FindByID(gomock.Any(), note.ID).Return(note, nil)

		err := s.service.Delete(s.ctx, note.ID, "bob")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("deletes and invalidates cache", func() {
		note := s.pendingNote("alice")
		s.mockStore.EXPECT().FindByID(gomock.Any(), note.ID).Return(note, nil)
		s.mockStore.EXPECT().Delete(gomock.Any(), note.ID).Return(nil)
		s.mockCache.EXPECT().Invalidate(gomock.Any(), "alice")
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(true)

		s.Require().NoError(s.service.Delete(s.ctx, note.ID, "alice"))
	})

	s.Run("store failure surfaces with message", func() {
		note := s.pendingNote("alice")
		cause := errors.New("disk full")
		s.mockStore.EXPECT().FindByID(gomock.Any(), note.ID).Return(note, nil)
		s.mockStore.EXPECT().Delete(gomock.Any(), note.ID).Return(cause)

		err := s.service.Delete(s.ctx, note.ID, "alice")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.Contains(err.Error(), "disk full")
	})
}
