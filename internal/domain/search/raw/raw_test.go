package raw

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_Unmarshal(t *testing.T) {
	body := `{
		"search_results": [{
			"id": "r1",
			"document": {
				"derivedStructData": {
					"title": "0304-J",
					"link": "gs://bucket/a.pdf",
					"snippets": ["plain", {"snippet": "object"}, {"other": 1}],
					"extractive_segments": [
						{"content": "first", "page_number": 3},
						{"content": "second", "page_number": "4"},
						{"content": "third", "page_number": null}
					]
				},
				"structData": {"case_number": "123-45", "petitioner_name": "Jane Roe"}
			},
			"metadata": {"docket_number": "123-45", "filed_date": "2024-01-01"}
		}],
		"count": 1,
		"pagination": {"current_page": 1, "total_pages": 1, "has_next": false, "has_previous": false},
		"session": "projects/p/sessions/s1"
	}`

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Len(t, resp.Results, 1)

	r := resp.Results[0]
	assert.Equal(t, "r1", r.ID)
	assert.Equal(t, "0304-J", r.RawTitle())
	assert.Equal(t, Snippets{"plain", "object"}, r.Derived().Snippets)
	require.Len(t, r.Segments(), 3)
	assert.Equal(t, PageNumber("3"), r.Segments()[0].PageNumber)
	assert.Equal(t, PageNumber("4"), r.Segments()[1].PageNumber)
	assert.Equal(t, PageNumber(""), r.Segments()[2].PageNumber)
	assert.Equal(t, "Jane Roe", r.Structured().PetitionerName)
	assert.Equal(t, "2024-01-01", r.Metadata.FiledDate)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "projects/p/sessions/s1", resp.Session)
}

func TestResult_NilAccessors(t *testing.T) {
	var r Result
	assert.Nil(t, r.Derived())
	assert.Nil(t, r.Structured())
	assert.Nil(t, r.Segments())
	assert.Empty(t, r.RawTitle())

	r.Title = "top"
	assert.Equal(t, "top", r.RawTitle())
}

func TestSnippets_RejectsNonArray(t *testing.T) {
	var s Snippets
	assert.Error(t, json.Unmarshal([]byte(`"text"`), &s))
}
