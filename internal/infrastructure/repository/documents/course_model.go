package documents

import (
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/tally-pad/internal/domain/game"
	"github.com/riskibarqy/tally-pad/internal/platform/jsoncodec"
)

const coursePrefix = "course:"

type courseDocument struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	GameType  string `json:"gameType"`
	HoleCount int    `json:"holeCount"`
	Pars      []int  `json:"pars"`
}

// CourseKey is the store key of a template. The trimmed name is escaped, not
// normalised, so two distinct names never share a key.
func CourseKey(gameType game.Variant, name string) string {
	return courseKeyPrefix(gameType) + url.PathEscape(strings.TrimSpace(name))
}

func courseKeyPrefix(gameType game.Variant) string {
	return coursePrefix + string(gameType) + ":"
}

func encodeCourse(c game.CourseTemplate) ([]byte, error) {
	return jsoncodec.Marshal(courseDocument{
		Type:      TypeCourseTemplate,
		Name:      c.Name,
		GameType:  string(c.GameType),
		HoleCount: c.HoleCount,
		Pars:      c.Pars,
	})
}

func decodeCourse(key, revision string, body []byte) (game.CourseTemplate, error) {
	var doc courseDocument
	if err := jsoncodec.Unmarshal(body, &doc); err != nil {
		return game.CourseTemplate{}, errors.Mark(errors.Wrapf(err, "course %s", key), ErrCorruptDocument)
	}
	if doc.Type != TypeCourseTemplate {
		return game.CourseTemplate{}, errors.Wrapf(ErrCorruptDocument, "%s is not a course template", key)
	}
	gameType, ok := game.ParseVariant(doc.GameType)
	if !ok {
		return game.CourseTemplate{}, errors.Wrapf(game.ErrUnknownVariant, "course %s game type %q", key, doc.GameType)
	}
	return game.CourseTemplate{
		Name:      doc.Name,
		GameType:  gameType,
		HoleCount: doc.HoleCount,
		Pars:      doc.Pars,
		Revision:  revision,
	}, nil
}

// documentType reads only the discriminator of a body.
func documentType(body []byte) (string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := jsoncodec.Unmarshal(body, &head); err != nil {
		return "", errors.Mark(err, ErrCorruptDocument)
	}
	return head.Type, nil
}
