package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// flexString принимает строку или число.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// flexInt принимает число, числовую строку или bool. Нечисловые значения дают 0.
type flexInt struct {
	Value int
	Set   bool
}

func (i *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		return nil
	case bytes.Equal(b, []byte("true")):
		*i = flexInt{Value: 1, Set: true}
		return nil
	case bytes.Equal(b, []byte("false")):
		*i = flexInt{Value: 0, Set: true}
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	*i = flexInt{Value: int(f), Set: true}
	return nil
}

// tagList принимает массив строк или объектов с полем tagName/name.
type tagList []string

func (t *tagList) UnmarshalJSON(b []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil
	}
	res := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil {
			res = append(res, s)
			continue
		}
		var obj struct {
			TagName string `json:"tagName"`
			Name    string `json:"name"`
		}
		if json.Unmarshal(item, &obj) == nil {
			if obj.TagName != "" {
				res = append(res, obj.TagName)
			} else if obj.Name != "" {
				res = append(res, obj.Name)
			}
		}
	}
	*t = res
	return nil
}

type videoPath struct {
	Quality   flexInt `json:"quality"`
	VideoPath string  `json:"videoPath"`
}

type cdn struct {
	IsDefault     flexInt     `json:"isDefault"`
	VideoPathList []videoPath `json:"videoPathList"`
}

// chapter эпизод в ответе каталога.
type chapter struct {
	ChapterID    flexString `json:"chapterId"`
	ChapterName  string     `json:"chapterName"`
	ChapterIndex flexInt    `json:"chapterIndex"`
	ChapterImg   string     `json:"chapterImg"`
	VideoPath    string     `json:"videoPath"`
	CdnList      []cdn      `json:"cdnList"`
}

type drama struct {
	BookID          flexString `json:"bookId"`
	ID              flexString `json:"id"`
	BookName        string     `json:"bookName"`
	Title           string     `json:"title"`
	CoverWap        string     `json:"coverWap"`
	BookCover       string     `json:"bookCover"`
	Cover           string     `json:"cover"`
	PlayCount       flexString `json:"playCount"`
	Tags            tagList    `json:"tags"`
	Introduction    string     `json:"introduction"`
	ChapterCount    flexInt    `json:"chapterCount"`
	TotalChapterNum flexInt    `json:"totalChapterNum"`
}

type column struct {
	Title    string  `json:"title"`
	BookList []drama `json:"bookList"`
}
