// Package meetings manages board meeting records in the Dataverse table
// cr6df_itotboardsitzung.
package meetings

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sgsw/ideenboard/internal/dataverse"
)

// EntitySet is the plural OData entity set name.
const EntitySet = "cr6df_itotboardsitzungs"

var ErrDateRequired = errors.New("meeting date is required")

// Meeting mirrors a row of the board meeting table.
type Meeting struct {
	ID            string `json:"cr6df_itotboardsitzungid,omitempty"`
	MeetingNumber string `json:"cr6df_sitzungid,omitempty"`
	Date          string `json:"cr6df_sitzungsdatum,omitempty"`
	Protocol      string `json:"cr6df_protokoll,omitempty"`
	ParticipantID string `json:"_cr6df_teilnehmer_value,omitempty"`

	CreatedOn  string `json:"createdon,omitempty"`
	ModifiedOn string `json:"modifiedon,omitempty"`
}

// CreateInput carries the fields a new meeting may set. The participant is
// a lookup into the employees table.
type CreateInput struct {
	Date          string
	Protocol      string
	ParticipantID string
}

// UpdateInput patches a meeting. Nil fields stay untouched.
type UpdateInput struct {
	Date     *string
	Protocol *string
}

// Service exposes the meeting operations the HTTP layer needs.
type Service struct {
	client *dataverse.Client
	logger zerolog.Logger
}

func NewService(client *dataverse.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// List returns all meetings, newest date first.
func (s *Service) List(ctx context.Context) ([]Meeting, error) {
	return dataverse.List[Meeting](ctx, s.client, EntitySet, dataverse.Query{
		OrderBy: "cr6df_sitzungsdatum desc",
	})
}

// Get returns a single meeting by id.
func (s *Service) Get(ctx context.Context, id string) (*Meeting, error) {
	return dataverse.Get[Meeting](ctx, s.client, EntitySet, id, dataverse.Query{})
}

// Create inserts a new meeting. The date is mandatory, protocol and
// participant are optional.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Meeting, error) {
	if input.Date == "" {
		return nil, ErrDateRequired
	}
	fields := map[string]any{
		"cr6df_sitzungsdatum": input.Date,
	}
	if input.Protocol != "" {
		fields["cr6df_protokoll"] = input.Protocol
	}
	if input.ParticipantID != "" {
		fields["cr6df_teilnehmer@odata.bind"] = fmt.Sprintf("/cr6df_sgsw_mitarbeitendes(%s)", input.ParticipantID)
	}
	meeting, err := dataverse.Create[Meeting](ctx, s.client, EntitySet, fields)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("id", meeting.ID).Str("date", meeting.Date).Msg("board meeting created")
	return meeting, nil
}

// Update patches the date and protocol of a meeting.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Meeting, error) {
	fields := map[string]any{}
	if input.Date != nil {
		if *input.Date == "" {
			return nil, ErrDateRequired
		}
		fields["cr6df_sitzungsdatum"] = *input.Date
	}
	if input.Protocol != nil {
		fields["cr6df_protokoll"] = *input.Protocol
	}
	return dataverse.Update[Meeting](ctx, s.client, EntitySet, id, fields)
}

// Delete removes a meeting.
func (s *Service) Delete(ctx context.Context, id string) error {
	return dataverse.Delete(ctx, s.client, EntitySet, id)
}
