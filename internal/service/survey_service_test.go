package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMailer struct {
	sendFn func(to, subject, body string) error
	sent   []struct{ to, subject, body string }
}

func (m *mockMailer) Send(to, subject, body string) error {
	m.sent = append(m.sent, struct{ to, subject, body string }{to, subject, body})
	if m.sendFn != nil {
		return m.sendFn(to, subject, body)
	}
	return nil
}

func TestDispatchSatisfactionSurvey(t *testing.T) {
	mailer := &mockMailer{}
	s := NewSurveyService(logrus.New(), mailer)

	req := &SurveyRequest{
		AppointmentID: uuid.MustParse("33333333-3333-3333-3333-333333333333"),
		PatientName:   "Ana Silva",
		PatientEmail:  "ana@example.com",
		Date:          time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
		TherapistName: "Dr. Costa",
		Services:      []string{"Manual therapy", "Dry needling"},
	}

	err := s.DispatchSatisfactionSurvey(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)

	assert.Equal(t, "ana@example.com", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].body, "Ana Silva")
	assert.Contains(t, mailer.sent[0].body, "Manual therapy, Dry needling")
	assert.Contains(t, mailer.sent[0].body, "Dr. Costa")
	assert.Contains(t, mailer.sent[0].body, req.AppointmentID.String())
}

func TestDispatchSatisfactionSurvey_MailerFailure(t *testing.T) {
	sendErr := errors.New("smtp down")
	mailer := &mockMailer{sendFn: func(to, subject, body string) error { return sendErr }}
	s := NewSurveyService(logrus.New(), mailer)

	err := s.DispatchSatisfactionSurvey(context.Background(), &SurveyRequest{
		AppointmentID: uuid.New(),
		PatientEmail:  "ana@example.com",
	})
	assert.ErrorIs(t, err, sendErr)
}
