package services

import (
	"context"
	"testing"
	"time"

	"shophub_backend/internal/models"
	"shophub_backend/internal/services/dto"
	"shophub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userServiceFixture struct {
	svc      UserService
	userRepo *fakeUserRepo
	store    *fakeStorage
	userID   string
}

func newUserServiceFixture(t *testing.T) *userServiceFixture {
	t.Helper()

	userRepo := newFakeUserRepo()
	store := &fakeStorage{}
	user := &models.User{Mobile: testMobile, Status: models.UserStatusRegistered}
	require.NoError(t, userRepo.Create(context.Background(), user))

	svc := NewUserService(userRepo, store, &fakeTxManager{db: newMemDB()}, time.Second)
	return &userServiceFixture{svc: svc, userRepo: userRepo, store: store, userID: user.ID}
}

func TestUpdateIdentityAdvancesStatus(t *testing.T) {
	fx := newUserServiceFixture(t)

	resp, err := fx.svc.UpdateIdentity(context.Background(), fx.userID, &dto.UpdateIdentityRequest{
		RealName:   "Aram",
		RealFamily: "Karimi",
	})

	require.NoError(t, err)
	assert.Equal(t, "Aram", resp.RealName)
	assert.Equal(t, models.UserStatusUploadInformation, resp.Status)
}

func TestUploadNationalCardAdvancesStatus(t *testing.T) {
	fx := newUserServiceFixture(t)

	resp, err := fx.svc.UploadNationalCard(context.Background(), fx.userID, uploaded("card.jpg", "image/jpeg", 1024))

	require.NoError(t, err)
	assert.Equal(t, models.UserStatusUploadedNationalCard, resp.Status)
	assert.Equal(t, 1, fx.store.putCount())

	require.Len(t, fx.userRepo.docs, 1)
	doc := fx.userRepo.docs[0]
	assert.Equal(t, models.UserDocumentNationalCard, doc.DocumentType)
	assert.True(t, doc.IsActive)
}

func TestBothStepsLeadToAllDocuments(t *testing.T) {
	t.Run("identity then card", func(t *testing.T) {
		fx := newUserServiceFixture(t)
		_, err := fx.svc.UpdateIdentity(context.Background(), fx.userID, &dto.UpdateIdentityRequest{RealName: "A", RealFamily: "B"})
		require.NoError(t, err)

		resp, err := fx.svc.UploadNationalCard(context.Background(), fx.userID, uploaded("card.pdf", "application/pdf", 1024))
		require.NoError(t, err)
		assert.Equal(t, models.UserStatusUploadedAllDocuments, resp.Status)
	})

	t.Run("card then identity", func(t *testing.T) {
		fx := newUserServiceFixture(t)
		_, err := fx.svc.UploadNationalCard(context.Background(), fx.userID, uploaded("card.png", "image/png", 1024))
		require.NoError(t, err)

		resp, err := fx.svc.UpdateIdentity(context.Background(), fx.userID, &dto.UpdateIdentityRequest{RealName: "A", RealFamily: "B"})
		require.NoError(t, err)
		assert.Equal(t, models.UserStatusUploadedAllDocuments, resp.Status)
	})
}

func TestVerifiedStatusNeverRegresses(t *testing.T) {
	fx := newUserServiceFixture(t)
	require.NoError(t, fx.userRepo.UpdateStatus(context.Background(), fx.userID, models.UserStatusVerified))

	resp, err := fx.svc.UpdateIdentity(context.Background(), fx.userID, &dto.UpdateIdentityRequest{RealName: "A", RealFamily: "B"})

	require.NoError(t, err)
	assert.Equal(t, models.UserStatusVerified, resp.Status)
}

func TestUploadNationalCardRejectsBadMime(t *testing.T) {
	fx := newUserServiceFixture(t)

	_, err := fx.svc.UploadNationalCard(context.Background(), fx.userID, uploaded("clip.mp4", "video/mp4", 1024))

	requireAppError(t, err, apperrors.CodeValidationFailed)
	assert.Equal(t, 0, fx.store.putCount())
}

func TestFindUserMissing(t *testing.T) {
	fx := newUserServiceFixture(t)

	_, err := fx.svc.FindByID(context.Background(), "ghost")

	requireAppError(t, err, apperrors.CodeNotFound)
}
