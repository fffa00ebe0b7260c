// Package remote is the typed client of the eligibility service.
package remote

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	apperrors "eligibility-intake/internal/common/errors"
	apphttp "eligibility-intake/internal/common/http"
	"eligibility-intake/internal/common/logger"
	"eligibility-intake/internal/common/validation"
	"eligibility-intake/internal/models"
)

const (
	EndpointSubjects     = "/subjects"
	EndpointInstitutions = "/institutions"
	EndpointPrograms     = "/programs"
	EndpointCompute      = "/compute"
)

// Service is everything the intake core needs from the eligibility service.
type Service interface {
	Subjects(ctx context.Context) (models.SubjectSchema, error)
	Institutions(ctx context.Context) ([]string, error)
	Programs(ctx context.Context, institution string) ([]models.Program, error)
	// Compute returns the raw 2xx body; decoding is left to the result renderer
	// so a malformed list degrades to the placeholder.
	Compute(ctx context.Context, req models.EligibilityRequest) ([]byte, error)
}

type Client struct {
	http   *apphttp.Client
	logger logger.Logger
}

func NewClient(httpClient *apphttp.Client, log logger.Logger) *Client {
	return &Client{
		http:   httpClient,
		logger: logger.Component(log, "remote"),
	}
}

func (c *Client) Subjects(ctx context.Context) (models.SubjectSchema, error) {
	var schema models.SubjectSchema
	if err := c.getValidated(ctx, EndpointSubjects, nil, validation.SchemaSubjects, &schema); err != nil {
		return models.SubjectSchema{}, err
	}
	c.logger.Debug("subjects loaded", map[string]interface{}{
		"mandatory": len(schema.Mandatory),
		"electives": len(schema.Electives),
	})
	return schema, nil
}

func (c *Client) Institutions(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.getValidated(ctx, EndpointInstitutions, nil, validation.SchemaInstitutions, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) Programs(ctx context.Context, institution string) ([]models.Program, error) {
	var programs []models.Program
	query := url.Values{"institution": {institution}}
	if err := c.getValidated(ctx, EndpointPrograms, query, validation.SchemaPrograms, &programs); err != nil {
		return nil, err
	}
	for i := range programs {
		if strings.TrimSpace(programs[i].Institution) == "" {
			programs[i].Institution = institution
		}
	}
	c.logger.Debug("programs loaded", map[string]interface{}{
		"institution": institution,
		"count":       len(programs),
	})
	return programs, nil
}

func (c *Client) Compute(ctx context.Context, req models.EligibilityRequest) ([]byte, error) {
	if req.ProgramIDs == nil {
		req.ProgramIDs = []string{}
	}
	if req.Subjects == nil {
		req.Subjects = []models.SubjectEntry{}
	}
	return c.http.PostJSON(ctx, EndpointCompute, req)
}

func (c *Client) getValidated(ctx context.Context, endpoint string, query url.Values, schema validation.SchemaName, out interface{}) error {
	body, err := c.http.GetRaw(ctx, endpoint, query)
	if err != nil {
		return err
	}
	if err := validation.Validate(schema, body); err != nil {
		c.logger.Warn("response failed schema validation", map[string]interface{}{
			"endpoint": endpoint,
			"error":    err,
		})
		return apperrors.NewResponseShapeError(endpoint, err.Error())
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewResponseShapeError(endpoint, err.Error())
	}
	return nil
}
