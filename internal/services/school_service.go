package services

import (
	"context"
	"regexp"
	"sync"

	"github.com/bookit/bookit-web/internal/models"
	"github.com/bookit/bookit-web/internal/session"
	"github.com/bookit/bookit-web/pkg/logger"
	"github.com/bookit/bookit-web/pkg/metrics"
	"github.com/bookit/bookit-web/pkg/tracing"
	"go.uber.org/zap"
)

var numericID = regexp.MustCompile(`^\d+$`)

// SchoolService reads school records and manages the schools linked to a user
type SchoolService struct {
	api BookitAPI
}

func NewSchoolService(api BookitAPI) *SchoolService {
	return &SchoolService{api: api}
}

// GetSchool fetches one school. Index-keyed Listas and Libros come back as
// ordered slices.
func (s *SchoolService) GetSchool(ctx context.Context, code string) *models.SchoolResult {
	resp, err := s.api.SchoolInfo(ctx, code)
	if err != nil {
		logger.LogError(err, "School lookup failed", zap.String("code", code))
		return &models.SchoolResult{Message: MsgConnectionError, Failure: models.FailureUnavailable}
	}

	if !resp.OK() {
		return &models.SchoolResult{
			Message: failureMessage(resp.Payload, resp.StatusCode, MsgSchoolDefault, "error"),
			Status:  resp.StatusCode,
			Failure: models.FailureRejected,
		}
	}

	var school models.School
	if err := resp.Decode(&school); err != nil {
		logger.Warn("Unreadable school record",
			zap.String("code", code),
			zap.Error(err))
		return &models.SchoolResult{
			Message: MsgSchoolDefault,
			Status:  resp.StatusCode,
			Failure: models.FailureRejected,
		}
	}

	return &models.SchoolResult{Success: true, Data: &school}
}

// GetLinkedSchools lists the full records of every school linked to userID.
// Lookups run concurrently; schools whose lookup fails are left out and the
// rest keep the order the API listed them in.
func (s *SchoolService) GetLinkedSchools(ctx context.Context, userID string) *models.SchoolsResult {
	resp, err := s.api.LinkedSchools(ctx, userID)
	if err != nil {
		logger.LogError(err, "Linked schools lookup failed", zap.String("user_id", userID))
		return &models.SchoolsResult{Message: MsgConnectionError, Failure: models.FailureUnavailable}
	}

	if !resp.OK() {
		return &models.SchoolsResult{
			Message: failureMessage(resp.Payload, resp.StatusCode, MsgLinkedDefault, "error"),
			Status:  resp.StatusCode,
			Failure: models.FailureRejected,
		}
	}

	var codes models.LinkedSchoolCodes
	if err := resp.Decode(&codes); err != nil {
		logger.Warn("Unreadable linked schools payload", zap.String("user_id", userID), zap.Error(err))
		codes = nil
	}

	return &models.SchoolsResult{Success: true, Schools: s.fetchSchools(ctx, codes)}
}

func (s *SchoolService) fetchSchools(ctx context.Context, codes []string) []models.School {
	ctx, span := tracing.StartSpan(ctx, "schools.fetch_linked")
	defer span.End()

	var (
		results = make([]*models.School, len(codes))
		wg      sync.WaitGroup
	)

	for i, code := range codes {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()

			res := s.GetSchool(ctx, code)
			if !res.Success {
				metrics.SchoolDetailFailures.Inc()
				logger.Warn("Dropping linked school from results",
					zap.String("code", code),
					zap.String("reason", res.Message))
				return
			}
			results[i] = res.Data
		}(i, code)
	}

	wg.Wait()

	schools := make([]models.School, 0, len(codes))
	for _, school := range results {
		if school != nil {
			schools = append(schools, *school)
		}
	}
	return schools
}

// LinkSchool links a school code to userID
func (s *SchoolService) LinkSchool(ctx context.Context, userID, code string) *models.Result {
	resp, err := s.api.LinkSchool(ctx, userID, code)
	if err != nil {
		logger.LogError(err, "Link school request failed", zap.String("user_id", userID))
		metrics.SchoolLinks.WithLabelValues("error").Inc()
		return &models.Result{Message: MsgConnectionError, Failure: models.FailureUnavailable}
	}

	p := resp.Payload
	if !resp.OK() || p.Truthy("error") {
		metrics.SchoolLinks.WithLabelValues("rejected").Inc()
		return &models.Result{
			Message: failureMessage(p, resp.StatusCode, MsgLinkDefault, "error"),
			Status:  resp.StatusCode,
			Failure: models.FailureRejected,
		}
	}

	metrics.SchoolLinks.WithLabelValues("success").Inc()
	logger.Info("School linked", zap.String("user_id", userID), zap.String("code", code))
	return &models.Result{Success: true, Message: textOr(p, MsgLinkSuccess, "mensaje", "message")}
}

// UserIDFromSession returns the numeric user id kept in the session,
// falling back to a numeric auth token.
func (s *SchoolService) UserIDFromSession(store session.Store) (string, bool) {
	if id, ok := store.Get(session.UserIDCookie); ok && numericID.MatchString(id) {
		return id, true
	}
	if token, ok := store.Get(session.AuthTokenCookie); ok && numericID.MatchString(token) {
		return token, true
	}
	return "", false
}
