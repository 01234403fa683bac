package service

import (
	"context"
	"testing"

	"digital-downloads-store/internal/dto"
	"digital-downloads-store/internal/model"
	"digital-downloads-store/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCommentService(t *testing.T) (CommentService, *fakeMailClient, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	mail := &fakeMailClient{}
	svc := NewCommentService(
		repository.NewCommentRepository(db),
		repository.NewProductRepository(db),
		repository.NewUserRepository(db),
		mail,
	)
	return svc, mail, db
}

func TestCommentCreate_StartsAsDraft(t *testing.T) {
	svc, mail, db := setupCommentService(t)
	ctx := context.Background()
	user := seedUser(t, db, "asker@example.com")
	product := seedProduct(t, db, "Asset Pack", "10.00")

	comment, err := svc.Create(ctx, user.ID, product.ID, "Does this include source files?")
	require.NoError(t, err)
	assert.Equal(t, model.CommentStatusDraft, comment.Status)

	// drafts never show up in the public listing
	page, err := svc.ListForProduct(ctx, product.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Data)

	require.Len(t, mail.mails(), 1)
	assert.Equal(t, "We received your question", mail.mails()[0].Subject)
}

func TestCommentCreate_UnknownProduct(t *testing.T) {
	svc, _, db := setupCommentService(t)
	user := seedUser(t, db, "asker@example.com")

	_, err := svc.Create(context.Background(), user.ID, 999, "hello?")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestModerate_PublishMakesVisible(t *testing.T) {
	svc, _, db := setupCommentService(t)
	ctx := context.Background()
	user := seedUser(t, db, "asker@example.com")
	product := seedProduct(t, db, "Asset Pack", "10.00")

	comment, err := svc.Create(ctx, user.ID, product.ID, "Does this include source files?")
	require.NoError(t, err)

	answer := "Yes, everything is included."
	status := string(model.CommentStatusPublished)
	_, err = svc.Moderate(ctx, comment.ID, &dto.CommentModerationRequest{
		Answer: &answer,
		Status: &status,
	})
	require.NoError(t, err)

	page, err := svc.ListForProduct(ctx, product.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, answer, page.Data[0].Answer)
}

func TestApprove_NotifiesAuthorWhenAnswered(t *testing.T) {
	svc, mail, db := setupCommentService(t)
	ctx := context.Background()
	user := seedUser(t, db, "asker@example.com")
	product := seedProduct(t, db, "Asset Pack", "10.00")

	comment, err := svc.Create(ctx, user.ID, product.ID, "Is there a refund policy?")
	require.NoError(t, err)

	answer := "30 days, no questions asked."
	_, err = svc.Moderate(ctx, comment.ID, &dto.CommentModerationRequest{Answer: &answer})
	require.NoError(t, err)

	require.NoError(t, svc.Approve(ctx, comment.ID))

	mails := mail.mails()
	require.NotEmpty(t, mails)
	last := mails[len(mails)-1]
	assert.Equal(t, "Your question has been answered", last.Subject)
	assert.Equal(t, user.Email, last.To)
}

func TestRecentQA_OnlyPublishedAnsweredHomepage(t *testing.T) {
	svc, _, db := setupCommentService(t)
	ctx := context.Background()
	user := seedUser(t, db, "asker@example.com")
	product := seedProduct(t, db, "Asset Pack", "10.00")

	visible, err := svc.Create(ctx, user.ID, product.ID, "Visible question")
	require.NoError(t, err)
	hidden, err := svc.Create(ctx, user.ID, product.ID, "Hidden question")
	require.NoError(t, err)

	answer := "An answer."
	status := string(model.CommentStatusPublished)
	show := true
	_, err = svc.Moderate(ctx, visible.ID, &dto.CommentModerationRequest{
		Answer: &answer, Status: &status, ShowOnHomepage: &show,
	})
	require.NoError(t, err)
	// published but not flagged for the homepage
	_, err = svc.Moderate(ctx, hidden.ID, &dto.CommentModerationRequest{
		Answer: &answer, Status: &status,
	})
	require.NoError(t, err)

	recent, err := svc.RecentQA(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, visible.ID, recent[0].ID)
}
