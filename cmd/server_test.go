package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/meitrex/course-service/log"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestToStringSlice(t *testing.T) {
	slice, err := toStringSlice([]string{"CourseWrite,ChapterWrite", "CourseJoin", ""})
	assert.NoError(t, err)
	assert.Equal(t, []string{"CourseWrite", "ChapterWrite", "CourseJoin"}, slice)

	slice, err = toStringSlice([]string{"", ""})
	assert.NoError(t, err)
	assert.Empty(t, slice)

	_, err = toStringSlice([]string{`"CourseWrite`})
	assert.Error(t, err)
}

func TestMaybeAddPlayground(t *testing.T) {
	logger = log.NewZapLogger(zap.NewNop())
	defer viper.Reset()

	viper.Set("graphql-playground", true)
	viper.Set("graphql-playground-path", "/playground")
	viper.Set("graphql-path", "/api/graphql")
	viper.Set("port", 9090)

	router := httprouter.New()
	maybeAddPlayground(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://127.0.0.1/playground", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"endpoint":"http://localhost:9090/api/graphql"`)

	viper.Set("graphql-playground", false)
	router = httprouter.New()
	maybeAddPlayground(router)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://127.0.0.1/playground", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
