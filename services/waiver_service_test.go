package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ninjapark-backend/models"
	"ninjapark-backend/storage"
)

func newWaiverService(t *testing.T, f *bookingFixture) (*WaiverService, string) {
	t.Helper()
	dir := t.TempDir()
	svc := NewWaiverService(f.db, storage.NewLocalStore(dir, "/uploads"))
	svc.Now = fixedClock("2026-05-01")
	return svc, dir
}

func TestSubmitWaiverRequiresCoreFields(t *testing.T) {
	f := newBookingFixture(t)
	svc, _ := newWaiverService(t, f)

	_, err := svc.Submit(context.Background(), WaiverInput{Name: "Kiran", Email: "kiran@example.com"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "Missing required fields")

	_, err = svc.Submit(context.Background(), WaiverInput{Name: "Kiran", Email: "bad", EmergencyContact: "Mom 999"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"email"}, verr.Keys())
}

func TestSubmitWaiverLinksBooking(t *testing.T) {
	f := newBookingFixture(t)
	svc, dir := newWaiverService(t, f)
	b, err := f.bookings.CreateSession(context.Background(), sessionInput())
	require.NoError(t, err)

	w, err := svc.Submit(context.Background(), WaiverInput{
		Name:             "Asha Rao",
		Email:            "asha@example.com",
		EmergencyContact: "Dev 9999999999",
		BookingReference: strings.ToLower(b.Reference),
		Signature:        "data:image/png;base64,aGVsbG8=",
		IPAddress:        "10.0.0.1",
	})
	require.NoError(t, err)
	require.NotNil(t, w.BookingID)
	assert.Equal(t, b.ID, *w.BookingID)
	assert.Equal(t, b.CustomerID, w.CustomerID)
	assert.Equal(t, models.WaiverVersion, w.Version)
	assert.False(t, w.IsMinor)
	require.True(t, strings.HasPrefix(w.SignatureURL, "/uploads/signatures/"))

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(w.SignatureURL, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	stored, err := f.bookings.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WaiverStatusSigned, stored.WaiverStatus)

	// Deleting the only waiver puts the booking back to PENDING.
	_, err = svc.Delete(w.ID)
	require.NoError(t, err)
	stored, err = f.bookings.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WaiverStatusPending, stored.WaiverStatus)
}

func TestSubmitWaiverIgnoresUnknownBooking(t *testing.T) {
	f := newBookingFixture(t)
	svc, _ := newWaiverService(t, f)

	w, err := svc.Submit(context.Background(), WaiverInput{
		Name:             "Walk In",
		Email:            "walkin@example.com",
		EmergencyContact: "Friend",
		BookingID:        ptr(uint(999)),
	})
	require.NoError(t, err)
	assert.Nil(t, w.BookingID)
}

func TestSubmitWaiverMinorNeedsGuardian(t *testing.T) {
	f := newBookingFixture(t)
	svc, _ := newWaiverService(t, f)

	in := WaiverInput{Name: "Tara", Email: "tara@example.com", EmergencyContact: "Dad", DateOfBirth: "2015-03-01"}
	_, err := svc.Submit(context.Background(), in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "guardianName")

	in.GuardianName = "Vikram"
	w, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, w.IsMinor)

	minors, total, err := svc.List(WaiverFilter{Minor: ptr(true)}, defaultPage())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Tara", minors[0].Name)
}

func TestSubmitWaiverRejectsNonImageSignature(t *testing.T) {
	f := newBookingFixture(t)
	svc, _ := newWaiverService(t, f)

	_, err := svc.Submit(context.Background(), WaiverInput{
		Name: "A", Email: "a@example.com", EmergencyContact: "B",
		Signature: "data:text/plain;base64,aGVsbG8=",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "signature")
}

// keyStore keeps uploads in memory so tests can see what is left behind.
type keyStore struct {
	files map[string][]byte
}

func (s *keyStore) Save(_ context.Context, key, _ string, r io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if s.files == nil {
		s.files = map[string][]byte{}
	}
	s.files[key] = data
	return "/uploads/" + key, nil
}

func (s *keyStore) Delete(_ context.Context, key string) error {
	delete(s.files, key)
	return nil
}

func TestSubmitWaiverRemovesSignatureWhenSaveFails(t *testing.T) {
	f := newBookingFixture(t)
	store := &keyStore{}
	svc := NewWaiverService(f.db, store)

	ok, err := svc.Submit(context.Background(), WaiverInput{
		Name: "Asha Rao", Email: "asha@example.com", EmergencyContact: "Dev 9999999999",
		Signature: "data:image/png;base64,aGVsbG8=",
	})
	require.NoError(t, err)
	assert.Len(t, store.files, 1)
	assert.True(t, strings.HasPrefix(ok.SignatureURL, "/uploads/signatures/"))

	require.NoError(t, f.db.Migrator().DropTable(&models.Waiver{}))
	_, err = svc.Submit(context.Background(), WaiverInput{
		Name: "Meera", Email: "meera@example.com", EmergencyContact: "Raj 8888888888",
		Signature: "data:image/png;base64,aGVsbG8=",
	})
	require.Error(t, err)
	assert.Len(t, store.files, 1, "the failed waiver leaves no signature behind")
}

func TestDeleteWaiverKeepsBookingSignedUntilLastOne(t *testing.T) {
	f := newBookingFixture(t)
	svc, _ := newWaiverService(t, f)
	b, err := f.bookings.CreateSession(context.Background(), sessionInput())
	require.NoError(t, err)

	submit := func(name, email string) *models.Waiver {
		w, err := svc.Submit(context.Background(), WaiverInput{
			Name: name, Email: email, EmergencyContact: "Dev 9999999999", BookingID: &b.ID,
		})
		require.NoError(t, err)
		return w
	}
	first := submit("Asha Rao", "asha@example.com")
	second := submit("Kiran Rao", "kiran@example.com")

	status := func() string {
		stored, err := f.bookings.Get(b.ID)
		require.NoError(t, err)
		return stored.WaiverStatus
	}
	assert.Equal(t, models.WaiverStatusSigned, status())

	_, err = svc.Delete(first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WaiverStatusSigned, status(), "another waiver still covers the booking")

	_, err = svc.Delete(second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WaiverStatusPending, status())

	_, err = svc.Delete(second.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
