package access

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidEpisodeID идентификатор эпизода не в формате {dramaId}_{index}.
var ErrInvalidEpisodeID = errors.New("invalid episode id")

// EpisodeID собирает идентификатор эпизода из драмы и индекса (с нуля).
func EpisodeID(dramaID string, index int) string {
	return dramaID + "_" + strconv.Itoa(index)
}

// ParseEpisodeID разбирает {dramaId}_{index}. Разделителем считается последнее подчёркивание.
func ParseEpisodeID(episodeID string) (string, int, error) {
	pos := strings.LastIndexByte(episodeID, '_')
	if pos <= 0 || pos == len(episodeID)-1 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidEpisodeID, episodeID)
	}
	index, err := strconv.Atoi(episodeID[pos+1:])
	if err != nil || index < 0 || strings.HasPrefix(episodeID[pos+1:], "+") {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidEpisodeID, episodeID)
	}
	return episodeID[:pos], index, nil
}
