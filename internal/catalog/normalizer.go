package catalog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/magabrotheeeer/dramabox/internal/models"
)

// DefaultPlaceholderCount число эпизодов-заглушек, если каталог не сообщил их количество.
const DefaultPlaceholderCount = 10

// Shape вариант структуры ответа каталога.
type Shape string

const (
	// ShapeUnknown структура не распознана.
	ShapeUnknown Shape = "unknown"
	// ShapeDirectList ответ является массивом эпизодов (или драм).
	ShapeDirectList Shape = "direct_list"
	// ShapeWrapped массив вложен в {data: {episodeList}}, {episodeList} или {data: [...]}.
	ShapeWrapped Shape = "wrapped"
	// ShapeColumnWrapped витрина {columnVoList: [{title, bookList}]}.
	ShapeColumnWrapped Shape = "column_wrapped"
	// ShapePlaceholder синтезированный список "Episode N" без видео.
	ShapePlaceholder Shape = "placeholder"
)

// Source откуда взят адрес видео эпизода.
type Source string

const (
	// SourceNone адреса нет, эпизод недоступен.
	SourceNone Source = "none"
	// SourceCdnQualityList адрес выбран из cdnList[].videoPathList[] по качеству.
	SourceCdnQualityList Source = "cdn_quality_list"
	// SourceVideoPath адрес взят из поля videoPath эпизода.
	SourceVideoPath Source = "video_path"
)

// Payload разобранный ответ каталога: ровно одно из полей заполнено в соответствии с Shape.
type Payload struct {
	Shape    Shape
	Items    []json.RawMessage // ShapeDirectList, ShapeWrapped
	Columns  []column          // ShapeColumnWrapped
	Count    int               // ShapePlaceholder
	Detected string            // ключ, по которому распознан ShapeWrapped
}

// Parse определяет вариант ответа. Ошибок не возвращает: всё нераспознанное: ShapeUnknown.
func Parse(raw []byte) Payload {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Payload{Shape: ShapeUnknown}
	}

	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if json.Unmarshal(raw, &items) != nil {
			return Payload{Shape: ShapeUnknown}
		}
		return Payload{Shape: ShapeDirectList, Items: items}
	case '{':
		return parseObject(raw)
	default:
		return Payload{Shape: ShapeUnknown}
	}
}

func parseObject(raw []byte) Payload {
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil {
		return Payload{Shape: ShapeUnknown}
	}

	if cols, ok := obj["columnVoList"]; ok {
		var columns []column
		if json.Unmarshal(cols, &columns) == nil {
			return Payload{Shape: ShapeColumnWrapped, Columns: columns}
		}
	}
	if data, ok := obj["data"]; ok {
		data = bytes.TrimSpace(data)
		if len(data) > 0 && data[0] == '[' {
			var items []json.RawMessage
			if json.Unmarshal(data, &items) == nil {
				return Payload{Shape: ShapeWrapped, Items: items, Detected: "data"}
			}
		}
		if len(data) > 0 && data[0] == '{' {
			inner := parseObject(data)
			if inner.Shape == ShapeWrapped || inner.Shape == ShapeColumnWrapped {
				if inner.Detected != "" {
					inner.Detected = "data." + inner.Detected
				}
				return inner
			}
		}
	}
	for _, key := range []string{"episodeList", "list", "bookList"} {
		if v, ok := obj[key]; ok {
			var items []json.RawMessage
			if json.Unmarshal(v, &items) == nil {
				return Payload{Shape: ShapeWrapped, Items: items, Detected: key}
			}
		}
	}
	return Payload{Shape: ShapeUnknown}
}

// Placeholder вариант из count эпизодов-заглушек; count <= 0 заменяется на DefaultPlaceholderCount.
func Placeholder(count int) Payload {
	if count <= 0 {
		count = DefaultPlaceholderCount
	}
	return Payload{Shape: ShapePlaceholder, Count: count}
}

// Episodes преобразует вариант в канонический список эпизодов.
// Для витрины и нераспознанного ответа список пуст.
func (p Payload) Episodes() []models.Episode {
	switch p.Shape {
	case ShapeDirectList, ShapeWrapped:
		return episodesFromItems(p.Items)
	case ShapePlaceholder:
		return placeholderEpisodes(p.Count)
	default:
		return []models.Episode{}
	}
}

// Sections преобразует вариант в секции драм. Плоский список становится одной секцией без заголовка.
func (p Payload) Sections() []models.DramaSection {
	switch p.Shape {
	case ShapeColumnWrapped:
		res := make([]models.DramaSection, 0, len(p.Columns))
		for _, c := range p.Columns {
			res = append(res, models.DramaSection{Title: c.Title, BookList: dramasFrom(c.BookList)})
		}
		return res
	case ShapeDirectList, ShapeWrapped:
		list := make([]drama, 0, len(p.Items))
		for _, item := range p.Items {
			var d drama
			if json.Unmarshal(item, &d) == nil {
				list = append(list, d)
			}
		}
		return []models.DramaSection{{BookList: dramasFrom(list)}}
	default:
		return []models.DramaSection{}
	}
}

// NormalizeEpisodes разбирает ответ со списком эпизодов. Нераспознанная структура
// даёт пустой список и предупреждение в лог.
func NormalizeEpisodes(raw []byte, log *slog.Logger) []models.Episode {
	p := Parse(raw)
	if p.Shape == ShapeUnknown || p.Shape == ShapeColumnWrapped {
		log.Warn("unexpected episode list shape", slog.String("shape", string(p.Shape)),
			slog.Int("size", len(raw)))
		return []models.Episode{}
	}
	return p.Episodes()
}

// NormalizeDramas разбирает ответ со списком драм.
func NormalizeDramas(raw []byte, log *slog.Logger) []models.DramaSection {
	p := Parse(raw)
	if p.Shape == ShapeUnknown {
		log.Warn("unexpected drama list shape", slog.Int("size", len(raw)))
	}
	return p.Sections()
}

// ChapterCount извлекает число эпизодов из ответа detail (chapterCount или totalChapterNum,
// в корне или под data). 0, если не найдено.
func ChapterCount(raw []byte) int {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	candidates := [][]byte{raw}
	if json.Unmarshal(raw, &wrapper) == nil && len(wrapper.Data) > 0 {
		candidates = append([][]byte{wrapper.Data}, candidates...)
	}
	for _, c := range candidates {
		var d drama
		if json.Unmarshal(c, &d) != nil {
			continue
		}
		if n := dramaChapterCount(d); n > 0 {
			return n
		}
	}
	return 0
}

// resolveVideo выбирает адрес видео эпизода: CDN по умолчанию (isDefault == 1, иначе первый),
// в нём самое высокое качество с непустым путём; затем videoPath эпизода.
func resolveVideo(ch chapter) (string, Source) {
	if len(ch.CdnList) > 0 {
		selected := ch.CdnList[0]
		for _, c := range ch.CdnList {
			if c.IsDefault.Value == 1 {
				selected = c
				break
			}
		}
		best, bestQuality := "", -1
		for _, v := range selected.VideoPathList {
			if v.VideoPath != "" && v.Quality.Value > bestQuality {
				best, bestQuality = v.VideoPath, v.Quality.Value
			}
		}
		if best != "" {
			return best, SourceCdnQualityList
		}
	}
	if ch.VideoPath != "" {
		return ch.VideoPath, SourceVideoPath
	}
	return "", SourceNone
}

func episodesFromItems(items []json.RawMessage) []models.Episode {
	res := make([]models.Episode, 0, len(items))
	for pos, item := range items {
		var ch chapter
		if json.Unmarshal(item, &ch) != nil {
			res = append(res, placeholderEpisode(pos))
			continue
		}

		// Index всегда позиция в списке: по нему строится {dramaId}_{index} и ищется эпизод
		// при воспроизведении. Номер главы из каталога хранится отдельно.
		title := ch.ChapterName
		if title == "" {
			title = episodeTitle(pos)
		}
		ep := models.Episode{
			Index:     pos,
			Title:     title,
			ChapterID: string(ch.ChapterID),
			Thumbnail: ch.ChapterImg,
		}
		if ch.ChapterIndex.Set {
			ep.ChapterIndex = ch.ChapterIndex.Value
		}
		if url, src := resolveVideo(ch); src != SourceNone {
			ep.VideoURL = &url
			ep.Available = true
		}
		res = append(res, ep)
	}
	return res
}

func placeholderEpisodes(count int) []models.Episode {
	res := make([]models.Episode, 0, count)
	for i := range count {
		res = append(res, placeholderEpisode(i))
	}
	return res
}

func placeholderEpisode(index int) models.Episode {
	return models.Episode{Index: index, Title: episodeTitle(index)}
}

func episodeTitle(index int) string {
	return "Episode " + strconv.Itoa(index+1)
}

func dramaChapterCount(d drama) int {
	if d.ChapterCount.Value > 0 {
		return d.ChapterCount.Value
	}
	return d.TotalChapterNum.Value
}

func dramasFrom(list []drama) []models.Drama {
	res := make([]models.Drama, 0, len(list))
	for _, d := range list {
		m := models.Drama{
			BookID:       firstNonEmpty(string(d.BookID), string(d.ID)),
			BookName:     firstNonEmpty(d.BookName, d.Title),
			CoverWap:     firstNonEmpty(d.CoverWap, d.BookCover, d.Cover),
			PlayCount:    string(d.PlayCount),
			Tags:         d.Tags,
			Introduction: d.Introduction,
			ChapterCount: dramaChapterCount(d),
		}
		if m.Tags == nil {
			m.Tags = []string{}
		}
		res = append(res, m)
	}
	return res
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
