package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/student-progress-api/internal/models"
	"github.com/noah-isme/student-progress-api/pkg/mail"
)

type notificationStudentStore interface {
	IncrementEmailsSent(ctx context.Context, id string) error
}

// NotificationService sends inactivity notices and maintains the per-student
// sent counter.
type NotificationService struct {
	students notificationStudentStore
	sender   mail.Sender
	logger   *zap.Logger
	metrics  *MetricsService
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(students notificationStudentStore, sender mail.Sender, logger *zap.Logger, metrics *MetricsService) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{students: students, sender: sender, logger: logger, metrics: metrics}
}

// Dispatch sends one inactivity notice to the student. It is a no-op when the
// student has notifications disabled. The sent counter is incremented only
// after the transport confirms delivery; a send failure is logged and
// absorbed so it never aborts the caller's sync.
func (s *NotificationService) Dispatch(ctx context.Context, student *models.Student) (bool, error) {
	if !student.EmailNotificationsEnabled {
		s.metrics.RecordNotification("skipped")
		return false, nil
	}

	msg := inactivityMessage(student)
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Sugar().Warnw("inactivity email send failed",
			"student_id", student.ID,
			"email", student.Email,
			"error", err,
		)
		s.metrics.RecordNotification("failed")
		return false, nil
	}

	if err := s.students.IncrementEmailsSent(ctx, student.ID); err != nil {
		s.metrics.RecordNotification("sent")
		return true, fmt.Errorf("email sent but counter update failed: %w", err)
	}

	s.metrics.RecordNotification("sent")
	s.logger.Sugar().Infow("inactivity email sent", "student_id", student.ID)
	return true, nil
}

func inactivityMessage(student *models.Student) mail.Message {
	return mail.Message{
		ToName:  student.FullName,
		ToEmail: student.Email,
		Subject: "Coding Inactivity Reminder",
		HTMLBody: fmt.Sprintf(`<h2>Hello %s,</h2>
<p>We noticed you haven't solved any problems on Codeforces in the last 7 days.</p>
<p>Regular practice is key to improving your coding skills. Why not solve a problem today?</p>
<p>Visit <a href="https://codeforces.com/">Codeforces</a> to find interesting problems to solve.</p>
<p>Happy coding!</p>
<p>Student Progress Management System</p>`, student.FullName),
		PlainBody: fmt.Sprintf("Hello %s, we noticed you haven't solved any problems on Codeforces in the last 7 days. Regular practice is key - why not solve a problem today?", student.FullName),
	}
}
