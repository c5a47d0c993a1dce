package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famscope/famscope/internal/domain/person"
	"github.com/famscope/famscope/pkg/errors"
)

const foundBody = `{
	"message": "found data",
	"result": {
		"person": {
			"dni": "12345678", "nom": "ANA", "ap": "LOPEZ", "am": "DIAZ",
			"ge": "FEMENINO", "edad": 30, "fn": "1996-01-15"
		},
		"quantity": 2,
		"coincidences": [
			{"dni": "00000001", "nom": "ROSA", "ap": "DIAZ", "am": "N/A",
			 "tipo": "MADRE", "ge": "FEMENINO", "edad": 55},
			{"dni": "00000002", "nom": "LUIS", "ap": "LOPEZ", "am": "PEREZ",
			 "tipo": "TIO PATERNO", "ge": "MASCULINO", "edad": 61}
		]
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, nil)
}

func TestFamilyTree_Found(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "12345678", r.URL.Query().Get("dni"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(foundBody))
	})

	res, err := c.FamilyTree(context.Background(), "12345678")
	require.NoError(t, err)

	assert.Equal(t, "12345678", res.Principal.DocumentID)
	assert.Equal(t, "ANA LOPEZ DIAZ", res.Principal.FullName())
	assert.Equal(t, person.GenderFemale, res.Principal.Gender)
	assert.Equal(t, 2, res.Quantity)
	require.Len(t, res.Relatives, 2)
	assert.Equal(t, "MADRE", res.Relatives[0].RelationshipLabel)
	assert.Equal(t, "TIO PATERNO", res.Relatives[1].RelationshipLabel)
	require.NotNil(t, res.Relatives[1].Age)
	assert.Equal(t, 61, *res.Relatives[1].Age)
}

func TestFamilyTree_NoDataMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message": "no data found", "result": null}`))
	})

	_, err := c.FamilyTree(context.Background(), "12345678")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeLookupNotFound, errors.GetCode(err))
}

func TestFamilyTree_MissingPerson(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message": "found data", "result": {"quantity": 0}}`))
	})

	_, err := c.FamilyTree(context.Background(), "12345678")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeLookupNotFound, errors.GetCode(err))
}

func TestFamilyTree_UpstreamNotFoundStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := c.FamilyTree(context.Background(), "12345678")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeLookupNotFound, errors.GetCode(err))
}

func TestFamilyTree_UpstreamServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.FamilyTree(context.Background(), "12345678")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeLookupFailed, errors.GetCode(err))
}

func TestFamilyTree_MalformedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message": "found`))
	})

	_, err := c.FamilyTree(context.Background(), "12345678")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeLookupDecode, errors.GetCode(err))
}

func TestFamilyTree_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	c := NewClient(srv.URL, time.Second, nil)

	_, err := c.FamilyTree(context.Background(), "12345678")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeLookupFailed, errors.GetCode(err))
}

func TestFamilyTree_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(foundBody))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FamilyTree(ctx, "12345678")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeLookupFailed, errors.GetCode(err))
}

func TestFamilyTree_DNIEscaped(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("dni")
		_, _ = w.Write([]byte(foundBody))
	})

	_, err := c.FamilyTree(context.Background(), "12 34&x=1")
	require.NoError(t, err)
	assert.Equal(t, "12 34&x=1", gotQuery)
}

func TestFamilyTree_LongSchemaRelatives(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"message": "found data",
			"result": {
				"person": {"dni": "12345678", "nom": "ANA", "ap": "LOPEZ", "am": "DIAZ"},
				"quantity": 1,
				"coincidences": [
					{"dni": "00000003", "nombres": "JOSE", "apellido_paterno": "RAMOS",
					 "apellido_materno": "QUISPE", "parentesco": "PRIMO MATERNO",
					 "sexo": "M", "edad": 40}
				]
			}
		}`))
	})

	res, err := c.FamilyTree(context.Background(), "12345678")
	require.NoError(t, err)
	require.Len(t, res.Relatives, 1)
	assert.Equal(t, "JOSE RAMOS QUISPE", res.Relatives[0].FullName())
	assert.Equal(t, "PRIMO MATERNO", res.Relatives[0].RelationshipLabel)
	assert.Equal(t, person.GenderMale, res.Relatives[0].Gender)
}
