package elastic

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/campusmeet/campusmeet-api/internal/domain/repository"
)

// EventStore reads event ownership from the events index, which is owned by
// the event service; this package only ever reads the organizerId field.
type EventStore struct {
	es    *elasticsearch.Client
	index string
}

func NewEventStore(es *elasticsearch.Client, index string) *EventStore {
	return &EventStore{es: es, index: index}
}

func (s *EventStore) GetEventOwner(ctx context.Context, eventID string) (string, error) {
	res, err := esapi.GetRequest{Index: s.index, DocumentID: eventID}.Do(ctx, s.es)
	if err != nil {
		return "", err
	}
	defer closeBody(res)
	if res.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if err := responseError(res, "get event"); err != nil {
		return "", err
	}
	var body struct {
		Source struct {
			OrganizerID string `json:"organizerId"`
		} `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.Source.OrganizerID, nil
}

var _ repository.EventStore = (*EventStore)(nil)
