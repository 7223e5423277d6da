package fetchx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildURL(t *testing.T) {
	testCases := []struct {
		name    string
		baseURL string
		path    string
		params  Params
		want    string
	}{
		{"base and path", "https://api.example.com", "/users", nil, "https://api.example.com/users"},
		{"duplicate slashes", "https://api.example.com/", "/users", nil, "https://api.example.com/users"},
		{"missing slash", "https://api.example.com", "users", nil, "https://api.example.com/users"},
		{"many slashes", "https://api.example.com//", "//users", nil, "https://api.example.com/users"},
		{"no base", "", "/users", ParamsOf("page", 1, "limit", 10), "/users?page=1&limit=10"},
		{"existing query", "", "/users?existing=1", ParamsOf("page", 1), "/users?existing=1&page=1"},
		{"empty params", "", "/users", Params{}, "/users"},
		{"only nil params", "", "/users", ParamsOf("a", nil), "/users"},
		{"base with query params", "https://api.example.com/v1", "items", ParamsOf("q", "a b"), "https://api.example.com/v1/items?q=a+b"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BuildURL(tc.baseURL, tc.path, tc.params))
		})
	}
}

func TestSerializeParams(t *testing.T) {
	var nilSlice []string

	got := SerializeParams(Params{
		{Key: "ids", Value: []int{1, 2, 3}},
		{Key: "skip", Value: nil},
		{Key: "empty", Value: nilSlice},
		{Key: "flag", Value: true},
		{Key: "name", Value: "x&y"},
		{Key: "tags", Value: [2]string{"a", "b"}},
	})

	assert.Equal(t, "ids=1&ids=2&ids=3&flag=true&name=x%26y&tags=a&tags=b", got)
}
