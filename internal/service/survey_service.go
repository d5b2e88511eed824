package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"physio-clinic-service/internal/infrastructure/mail"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SurveyRequest carries everything the satisfaction-survey mail needs.
type SurveyRequest struct {
	AppointmentID uuid.UUID
	PatientName   string
	PatientEmail  string
	Date          time.Time
	TherapistName string
	Services      []string
}

// SurveyDispatcher sends a satisfaction survey to the patient after an
// appointment completes. Dispatch is best-effort: callers log failures and
// never roll back the status change that triggered it.
type SurveyDispatcher interface {
	DispatchSatisfactionSurvey(ctx context.Context, req *SurveyRequest) error
}

type surveyService struct {
	log    *logrus.Logger
	mailer mail.Mailer
}

func NewSurveyService(log *logrus.Logger, mailer mail.Mailer) SurveyDispatcher {
	return &surveyService{
		log:    log,
		mailer: mailer,
	}
}

func (s *surveyService) DispatchSatisfactionSurvey(ctx context.Context, req *SurveyRequest) error {
	subject := "How was your visit?"
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Thank you for visiting us on %s for: %s.\n"+
			"Your therapist was %s.\n\n"+
			"We would love to hear how it went. Please reply to this email "+
			"with your feedback, quoting reference %s.\n\n"+
			"The clinic team",
		req.PatientName,
		req.Date.Format("Monday, 2 January 2006 at 15:04"),
		strings.Join(req.Services, ", "),
		req.TherapistName,
		req.AppointmentID,
	)

	if err := s.mailer.Send(req.PatientEmail, subject, body); err != nil {
		s.log.Warnf("Failed to dispatch satisfaction survey for appointment %s: %+v", req.AppointmentID, err)
		return fmt.Errorf("dispatch survey for appointment %s: %w", req.AppointmentID, err)
	}

	s.log.Infof("Satisfaction survey dispatched: appointment=%s, patient=%s", req.AppointmentID, req.PatientEmail)
	return nil
}
