package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/campusmeet/campusmeet-api/internal/domain/entity"
	"github.com/campusmeet/campusmeet-api/internal/domain/repository"
)

// listCap bounds unpaginated listings; callers wanting more go through
// GetPaginated.
const listCap = 10000

// fieldUsernameLower is a derived search field written next to the codec
// record so username availability checks stay case-insensitive without
// custom index analyzers. The codec ignores it on decode.
const fieldUsernameLower = "usernameLower"

// Indices names the Elasticsearch indices backing the user aggregate. The
// sub-collection indices hold one record per (user, key) pair with document
// id "<userID>:<key>", which makes the key natural: re-writing the same
// pair overwrites instead of duplicating.
type Indices struct {
	Users        string
	JoinedEvents string
	Invitations  string
	Favorites    string
	Follows      string
}

func DefaultIndices() Indices {
	return Indices{
		Users:        "users",
		JoinedEvents: "user-joined-events",
		Invitations:  "user-invitations",
		Favorites:    "user-favorites",
		Follows:      "user-follows",
	}
}

// UserRepository implements the repository contract against Elasticsearch.
// Consistency across sub-collection writes is the store's business; the
// two-step operations here (accept invitation, delete cascade) are not
// transactional and rely on idempotent retries instead.
type UserRepository struct {
	es     *elasticsearch.Client
	events repository.EventStore
	logger *logrus.Logger
	idx    Indices
}

func NewUserRepository(es *elasticsearch.Client, events repository.EventStore, logger *logrus.Logger, idx Indices) *UserRepository {
	return &UserRepository{es: es, events: events, logger: logger, idx: idx}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.getDoc(ctx, r.idx.Users, id)
	if err != nil || doc == nil {
		return nil, err
	}
	u, ok := entity.UserFromDocument(doc)
	if !ok {
		// corrupt or legacy record degrades to not found
		r.logger.WithField("user_id", id).Warn("skipping undecodable user record")
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	docs, err := r.searchDocs(ctx, r.idx.Users, map[string]any{
		"size":  1,
		"query": termQuery(entity.FieldEmail, email),
	})
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	u, ok := entity.UserFromDocument(docs[0])
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]entity.User, error) {
	docs, err := r.searchDocs(ctx, r.idx.Users, map[string]any{
		"size":  listCap,
		"query": map[string]any{"match_all": map[string]any{}},
	})
	if err != nil {
		return nil, err
	}
	return r.decodeUsers(docs), nil
}

func (r *UserRepository) GetByUniversity(ctx context.Context, university string) ([]entity.User, error) {
	docs, err := r.searchDocs(ctx, r.idx.Users, map[string]any{
		"size":  listCap,
		"query": termQuery(entity.FieldUniversity, university),
	})
	if err != nil {
		return nil, err
	}
	return r.decodeUsers(docs), nil
}

func (r *UserRepository) GetByHobby(ctx context.Context, hobby string) ([]entity.User, error) {
	docs, err := r.searchDocs(ctx, r.idx.Users, map[string]any{
		"size":  listCap,
		"query": termQuery(entity.FieldHobbies, hobby),
	})
	if err != nil {
		return nil, err
	}
	return r.decodeUsers(docs), nil
}

func (r *UserRepository) Save(ctx context.Context, u entity.User) error {
	doc := u.Document()
	doc[fieldUsernameLower] = strings.ToLower(u.Username)
	return r.indexDoc(ctx, r.idx.Users, u.ID, doc)
}

func (r *UserRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	patch := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		patch[k] = v
	}
	patch[entity.FieldUpdatedAt] = time.Now().UnixMilli()
	if name, ok := fields[entity.FieldUsername].(string); ok {
		patch[fieldUsernameLower] = strings.ToLower(name)
	}
	body, err := json.Marshal(map[string]any{"doc": patch})
	if err != nil {
		return err
	}
	res, err := esapi.UpdateRequest{
		Index:      r.idx.Users,
		DocumentID: id,
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}.Do(ctx, r.es)
	if err != nil {
		return err
	}
	defer closeBody(res)
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	return responseError(res, "update user")
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := esapi.DeleteRequest{
		Index:      r.idx.Users,
		DocumentID: id,
		Refresh:    "true",
	}.Do(ctx, r.es)
	if err != nil {
		return err
	}
	closeBody(res)
	if res.StatusCode != http.StatusNotFound {
		if err := responseError(res, "delete user"); err != nil {
			return err
		}
	}
	return r.deleteByUser(ctx, r.idx.JoinedEvents, id)
}

func (r *UserRepository) GetPaginated(ctx context.Context, limit int, cursor string) (repository.UserPage, error) {
	query := map[string]any{
		"size": limit + 1,
		"sort": []map[string]any{{keyword(entity.FieldUserID): map[string]any{"order": "asc"}}},
	}
	if cursor == "" {
		query["query"] = map[string]any{"match_all": map[string]any{}}
	} else {
		query["query"] = map[string]any{
			"range": map[string]any{keyword(entity.FieldUserID): map[string]any{"gt": cursor}},
		}
	}
	docs, err := r.searchDocs(ctx, r.idx.Users, query)
	if err != nil {
		return repository.UserPage{}, err
	}
	page := repository.UserPage{Users: r.decodeUsers(docs)}
	if len(docs) == limit+1 {
		page.HasMore = true
		if len(page.Users) > limit {
			page.Users = page.Users[:limit]
		}
	}
	return page, nil
}

func (r *UserRepository) NewID() string {
	return uuid.NewString()
}

func (r *UserRepository) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	docs, err := r.searchDocs(ctx, r.idx.Users, map[string]any{
		"size":  1,
		"query": termQuery(fieldUsernameLower, strings.ToLower(username)),
	})
	if err != nil {
		return false, err
	}
	return len(docs) == 0, nil
}

func (r *UserRepository) decodeUsers(docs []map[string]any) []entity.User {
	out := make([]entity.User, 0, len(docs))
	for _, doc := range docs {
		u, ok := entity.UserFromDocument(doc)
		if !ok {
			r.logger.Warn("skipping undecodable user record in listing")
			continue
		}
		out = append(out, u)
	}
	return out
}

// getDoc fetches a single document's _source, with 404 mapped to nil.
func (r *UserRepository) getDoc(ctx context.Context, index, id string) (map[string]any, error) {
	res, err := esapi.GetRequest{Index: index, DocumentID: id}.Do(ctx, r.es)
	if err != nil {
		return nil, err
	}
	defer closeBody(res)
	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err := responseError(res, "get document"); err != nil {
		return nil, err
	}
	var body struct {
		Source map[string]any `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Source, nil
}

func (r *UserRepository) indexDoc(ctx context.Context, index, id string, doc map[string]any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := esapi.IndexRequest{
		Index:      index,
		DocumentID: id,
		Body:       bytes.NewReader(b),
		Refresh:    "true",
	}.Do(ctx, r.es)
	if err != nil {
		return err
	}
	defer closeBody(res)
	return responseError(res, "index document")
}

func (r *UserRepository) deleteDoc(ctx context.Context, index, id string) error {
	res, err := esapi.DeleteRequest{
		Index:      index,
		DocumentID: id,
		Refresh:    "true",
	}.Do(ctx, r.es)
	if err != nil {
		return err
	}
	defer closeBody(res)
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	return responseError(res, "delete document")
}

func (r *UserRepository) deleteByUser(ctx context.Context, index, userID string) error {
	body, err := json.Marshal(map[string]any{"query": termQuery("userId", userID)})
	if err != nil {
		return err
	}
	refresh := true
	res, err := esapi.DeleteByQueryRequest{
		Index:   []string{index},
		Body:    bytes.NewReader(body),
		Refresh: &refresh,
	}.Do(ctx, r.es)
	if err != nil {
		return err
	}
	defer closeBody(res)
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	return responseError(res, "delete by query")
}

func (r *UserRepository) searchDocs(ctx context.Context, index string, query map[string]any) ([]map[string]any, error) {
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	res, err := r.es.Search(
		r.es.Search.WithContext(ctx),
		r.es.Search.WithIndex(index),
		r.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer closeBody(res)
	if res.StatusCode == http.StatusNotFound {
		// index not created yet means there is nothing stored
		return nil, nil
	}
	if err := responseError(res, "search"); err != nil {
		return nil, err
	}
	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// termQuery targets the keyword sub-field dynamic mapping creates for
// strings, giving exact-match semantics.
func termQuery(field, value string) map[string]any {
	return map[string]any{"term": map[string]any{keyword(field): value}}
}

func keyword(field string) string { return field + ".keyword" }

func subKey(userID, key string) string { return userID + ":" + key }

func closeBody(res *esapi.Response) {
	if res != nil && res.Body != nil {
		_ = res.Body.Close()
	}
}

func responseError(res *esapi.Response, op string) error {
	if res.IsError() {
		return fmt.Errorf("elastic: %s: %s", op, res.Status())
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
