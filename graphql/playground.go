package graphql

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

const playgroundVersion = "1.7.20"

const playgroundExampleQuery = `query {
  courses(filter: {published: {equals: true}}, sortBy: [START_DATE], sortDirection: [DESC]) {
    id
    title
    startDate
    endDate
    chapters {
      number
      title
    }
  }
}
`

var playgroundTemplate = template.Must(template.New("playground").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8"/>
  <meta name="viewport" content="user-scalable=no, initial-scale=1.0, minimum-scale=1.0, maximum-scale=1.0, minimal-ui">
  <title>Course Service Playground</title>
  <link rel="stylesheet" href="//cdn.jsdelivr.net/npm/graphql-playground-react@{{.Version}}/build/static/css/index.css"/>
  <link rel="shortcut icon" href="//cdn.jsdelivr.net/npm/graphql-playground-react@{{.Version}}/build/favicon.png"/>
  <script src="//cdn.jsdelivr.net/npm/graphql-playground-react@{{.Version}}/build/static/js/middleware.js"></script>
  <style>
    body { margin: 0; background-color: rgb(23, 42, 58); font-family: Open Sans, sans-serif; }
    #root { height: 100vh; }
  </style>
</head>
<body>
  <div id="root"></div>
  <script>
    window.addEventListener('load', function () {
      GraphQLPlayground.init(document.getElementById('root'), {{.Options}})
    })
  </script>
</body>
</html>
`))

type playgroundTab struct {
	Endpoint string            `json:"endpoint"`
	Query    string            `json:"query"`
	Headers  map[string]string `json:"headers,omitempty"`
}

type playgroundOptions struct {
	Endpoint string          `json:"endpoint"`
	Tabs     []playgroundTab `json:"tabs"`
}

// GetPlaygroundHandle serves a GraphQL playground whose requests go to endpointURL.
func GetPlaygroundHandle(endpointURL string) httprouter.Handle {
	options, err := json.Marshal(playgroundOptions{
		Endpoint: endpointURL,
		Tabs: []playgroundTab{{
			Endpoint: endpointURL,
			Query:    playgroundExampleQuery,
		}},
	})
	if err != nil {
		panic(err)
	}

	data := struct {
		Version string
		Options template.JS
	}{playgroundVersion, template.JS(options)}

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := playgroundTemplate.Execute(w, data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
