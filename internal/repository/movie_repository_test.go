package repository

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestNormalizeTrailerLink(t *testing.T) {
    cases := []struct {
        name string
        in   string
        want string
    }{
        {
            name: "watch url becomes embed url",
            in:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
            want: "https://www.youtube.com/embed/dQw4w9WgXcQ",
        },
        {
            name: "embed url passes through",
            in:   "https://www.youtube.com/embed/dQw4w9WgXcQ",
            want: "https://www.youtube.com/embed/dQw4w9WgXcQ",
        },
        {
            name: "non-youtube url passes through",
            in:   "https://vimeo.com/123456",
            want: "https://vimeo.com/123456",
        },
        {
            name: "empty link",
            in:   "",
            want: "",
        },
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, NormalizeTrailerLink(tc.in))
        })
    }
}
