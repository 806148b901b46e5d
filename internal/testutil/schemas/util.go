package schemas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"

	"github.com/meitrex/course-service/types"
	. "github.com/onsi/gomega"
	"github.com/sergi/go-diff/diffmatchpatch"
)

type ResponseBody struct {
	Data   map[string]interface{} `json:"data"`
	Errors []ErrorEntry           `json:"errors"`
}

type ErrorEntry struct {
	Message   string        `json:"message"`
	Path      []interface{} `json:"path"`
	Locations []struct {
		Line   int `json:"line"`
		Column int `json:"column"`
	} `json:"locations"`
	Extensions map[string]interface{} `json:"extensions"`
}

const (
	getIndex  = 0
	postIndex = 1
	host      = "127.0.0.1"
)

func DecodeResponse(buffer *bytes.Buffer) ResponseBody {
	var response ResponseBody
	err := json.NewDecoder(buffer).Decode(&response)
	Expect(err).ToNot(HaveOccurred())
	return response
}

func DecodeData(buffer *bytes.Buffer, key string) interface{} {
	response := DecodeResponse(buffer)
	Expect(response.Errors).To(HaveLen(0))
	value, found := response.Data[key]
	if !found {
		panic(fmt.Sprintf("%s key not in response: %v", key, response))
	}
	return value
}

func DecodeDataAsSliceOfMaps(buffer *bytes.Buffer, key string) []map[string]interface{} {
	arr := DecodeData(buffer, key).([]interface{})
	result := make([]map[string]interface{}, 0, len(arr))
	for _, item := range arr {
		result = append(result, item.(map[string]interface{}))
	}
	return result
}

func ExecutePost(routes []types.Route, target string, query string, variables map[string]interface{}, header http.Header) *bytes.Buffer {
	b, err := json.Marshal(map[string]interface{}{"query": query, "variables": variables})
	Expect(err).ToNot(HaveOccurred())
	r := httptest.NewRequest(http.MethodPost, fmt.Sprintf("http://%s", path.Join(host, target)), bytes.NewReader(b))
	for name, values := range header {
		for _, value := range values {
			r.Header.Add(name, value)
		}
	}
	w := httptest.NewRecorder()
	routes[postIndex].Handler.ServeHTTP(w, r)
	Expect(w.Code).To(Equal(http.StatusOK))
	return w.Body
}

func ExecuteGet(routes []types.Route, target string, query string, variables map[string]interface{}) *bytes.Buffer {
	r := httptest.NewRequest(http.MethodGet, fmt.Sprintf("http://%s", path.Join(host, target)), nil)
	q := r.URL.Query()
	q.Add("query", query)
	if variables != nil {
		vars, err := json.Marshal(variables)
		Expect(err).ToNot(HaveOccurred())
		q.Add("variables", string(vars))
	}
	r.URL.RawQuery = q.Encode()
	w := httptest.NewRecorder()
	routes[getIndex].Handler.ServeHTTP(w, r)
	Expect(w.Code).To(Equal(http.StatusOK))
	return w.Body
}

func ExpectError(response ResponseBody, expectedMessage string) {
	Expect(response.Errors).To(HaveLen(1))
	Expect(response.Errors[0].Message).To(ContainSubstring(expectedMessage))
}

func ExpectClassification(response ResponseBody, classification string) {
	Expect(response.Errors).To(HaveLen(1))
	Expect(response.Errors[0].Extensions).To(HaveKeyWithValue("classification", classification))
}

// JSONDiff renders expected and actual as indented JSON and returns a readable diff,
// or an empty string when both are equal.
func JSONDiff(expected interface{}, actual interface{}) string {
	e, err := json.MarshalIndent(expected, "", "  ")
	Expect(err).ToNot(HaveOccurred())
	a, err := json.MarshalIndent(actual, "", "  ")
	Expect(err).ToNot(HaveOccurred())
	if bytes.Equal(e, a) {
		return ""
	}
	dmp := diffmatchpatch.New()
	return dmp.DiffPrettyText(dmp.DiffMain(string(e), string(a), false))
}
