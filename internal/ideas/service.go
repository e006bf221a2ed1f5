package ideas

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sgsw/ideenboard/internal/dataverse"
)

// Service exposes the idea operations the HTTP layer needs.
type Service struct {
	client *dataverse.Client
	logger zerolog.Logger
}

func NewService(client *dataverse.Client, logger zerolog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// List returns all ideas, newest first.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return dataverse.List[Record](ctx, s.client, EntitySet, dataverse.Query{
		Select:  listSelect,
		OrderBy: "createdon desc",
	})
}

// ListByStatus returns all ideas in the given lifecycle status, newest first.
func (s *Service) ListByStatus(ctx context.Context, status int) ([]Record, error) {
	return dataverse.List[Record](ctx, s.client, EntitySet, dataverse.Query{
		Select:  listSelect,
		Filter:  fmt.Sprintf("cr6df_lifecyclestatus eq %d", status),
		OrderBy: "createdon desc",
	})
}

// SearchByName returns ideas whose name contains the given fragment.
func (s *Service) SearchByName(ctx context.Context, name string) ([]Record, error) {
	return dataverse.List[Record](ctx, s.client, EntitySet, dataverse.Query{
		Select:  listSelect,
		Filter:  fmt.Sprintf("contains(cr6df_name, '%s')", dataverse.EscapeString(name)),
		OrderBy: "cr6df_name asc",
	})
}

// Get returns a single idea by id.
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	return dataverse.Get[Record](ctx, s.client, EntitySet, id, dataverse.Query{Select: listSelect})
}

// Create inserts a new idea. The name column is mandatory, all other input
// is filtered through the writable allowlist.
func (s *Service) Create(ctx context.Context, input map[string]any) (*Record, error) {
	fields := cleanInput(input)
	if name, _ := fields["cr6df_name"].(string); name == "" {
		return nil, ErrNameRequired
	}
	rec, err := dataverse.Create[Record](ctx, s.client, EntitySet, fields)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("id", rec.ID).Str("name", rec.Name).Msg("idea created")
	return rec, nil
}

// Update patches an existing idea with the writable subset of input.
func (s *Service) Update(ctx context.Context, id string, input map[string]any) (*Record, error) {
	return dataverse.Update[Record](ctx, s.client, EntitySet, id, cleanInput(input))
}

// Delete removes an idea.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := dataverse.Delete(ctx, s.client, EntitySet, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("idea deleted")
	return nil
}

// Review carries the board assessment of an idea.
type Review struct {
	Complexity  int
	Criticality int
	Rationale   string
}

// UpdateReview stores the board assessment. Only ideas currently presented
// to the board may be reviewed.
func (s *Service) UpdateReview(ctx context.Context, id string, review Review) (*Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !presentedToBoard(rec) {
		return nil, ErrNotEditable
	}
	return dataverse.Update[Record](ctx, s.client, EntitySet, id, map[string]any{
		"cr6df_komplexitaet":          review.Complexity,
		"cr6df_kritikalitaet":         review.Criticality,
		"cr6df_itotboard_begruendung": review.Rationale,
	})
}

// UpdateStatus closes out the board stage by moving the idea to a new
// lifecycle status. The idea must still be presented to the board and its
// review must be complete.
func (s *Service) UpdateStatus(ctx context.Context, id string, status int) (*Record, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !presentedToBoard(rec) {
		return nil, ErrNotEditable
	}
	if rec.Complexity == nil || rec.Criticality == nil || rec.BoardRationale == "" {
		return nil, ErrReviewIncomplete
	}
	updated, err := dataverse.Update[Record](ctx, s.client, EntitySet, id, map[string]any{
		"cr6df_lifecyclestatus": status,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("id", id).Int("status", status).Str("label", StatusLabel(status)).Msg("idea status changed")
	return updated, nil
}

// AssignMeeting links the idea to a board meeting, or clears the link when
// meetingID is empty.
func (s *Service) AssignMeeting(ctx context.Context, ideaID, meetingID string) error {
	payload := map[string]any{}
	if meetingID == "" {
		payload["cr6df_itotBoardSitzung@odata.bind"] = nil
	} else {
		payload["cr6df_itotBoardSitzung@odata.bind"] = fmt.Sprintf("/cr6df_itotboardsitzungs(%s)", meetingID)
	}
	_, err := dataverse.Update[Record](ctx, s.client, EntitySet, ideaID, payload)
	return err
}

// TableInfo is the result of the metadata probe for the ideas table.
type TableInfo struct {
	Exists        bool   `json:"tableExists"`
	EntitySetName string `json:"entitySetName"`
	LogicalName   string `json:"logicalName"`
	DisplayName   string `json:"displayName,omitempty"`
	Err           string `json:"error,omitempty"`
}

// CheckTable asks the environment's metadata whether the ideas table exists.
// The table is provisioned outside this service, so a missing table is
// reported, never created.
func (s *Service) CheckTable(ctx context.Context) (*TableInfo, error) {
	var def struct {
		EntitySetName string `json:"EntitySetName"`
		DisplayName   struct {
			UserLocalizedLabel struct {
				Label string `json:"Label"`
			} `json:"UserLocalizedLabel"`
		} `json:"DisplayName"`
	}
	endpoint := fmt.Sprintf("/EntityDefinitions(LogicalName='%s')", LogicalName)
	err := s.client.GetJSON(ctx, endpoint, &def)
	if err == nil {
		info := &TableInfo{
			Exists:        true,
			EntitySetName: def.EntitySetName,
			LogicalName:   LogicalName,
			DisplayName:   def.DisplayName.UserLocalizedLabel.Label,
		}
		if info.EntitySetName == "" {
			info.EntitySetName = EntitySet
		}
		return info, nil
	}
	if dataverse.IsNotFound(err) {
		return &TableInfo{
			Exists:        false,
			EntitySetName: EntitySet,
			LogicalName:   LogicalName,
			Err:           "table does not exist in this environment",
		}, nil
	}
	return nil, err
}

func presentedToBoard(rec *Record) bool {
	return rec.LifecycleStatus != nil && *rec.LifecycleStatus == StatusPresentedToBoard
}
