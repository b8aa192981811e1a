package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactMessages(t *testing.T) {
	db := newTestDB(t)
	mailer := &recordingMailer{}
	svc := NewContactService(db, NewSettingsService(db), mailer, discardLogger())

	_, err := svc.Create(ContactInput{Name: "Raj", Email: "raj@example.com"})
	assert.EqualError(t, err, "Name, email and message are required")

	_, err = svc.Create(ContactInput{Name: "Raj", Email: "raj", Message: "Hi"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	msg, err := svc.Create(ContactInput{Name: "Raj", Email: "RAJ@example.com", Subject: "Party", Message: "Do you host parties on Sunday?"})
	require.NoError(t, err)
	assert.Equal(t, "raj@example.com", msg.Email)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, DefaultSettings().ContactEmail, mailer.sent[0].To)

	_, total, err := svc.List(true, defaultPage())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	read, err := svc.MarkRead(msg.ID, true)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	_, total, err = svc.List(true, defaultPage())
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = svc.Delete(msg.ID)
	require.NoError(t, err)
	_, err = svc.Get(msg.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
