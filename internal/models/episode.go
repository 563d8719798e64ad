package models

// Episode каноническое описание эпизода после нормализации ответа каталога.
// VideoURL == nil означает, что воспроизводимый адрес получить не удалось
// (Available == false), и такой эпизод нельзя разблокировать билетом.
// Index: позиция в списке с нуля, ChapterIndex: номер главы, как его прислал каталог.
type Episode struct {
	Index        int     `json:"index"`
	Title        string  `json:"title"`
	VideoURL     *string `json:"videoUrl"`
	Available    bool    `json:"available"`
	ChapterID    string  `json:"chapterId,omitempty"`
	ChapterIndex int     `json:"chapterIndex,omitempty"`
	Thumbnail    string  `json:"thumbnail,omitempty"`
}

// Drama краткое описание драмы в списках каталога.
type Drama struct {
	BookID       string   `json:"bookId"`
	BookName     string   `json:"bookName"`
	CoverWap     string   `json:"coverWap"`
	PlayCount    string   `json:"playCount"`
	Tags         []string `json:"tags"`
	Introduction string   `json:"introduction"`
	ChapterCount int      `json:"chapterCount,omitempty"`
}

// DramaSection секция витрины каталога (columnVoList).
type DramaSection struct {
	Title    string  `json:"title"`
	BookList []Drama `json:"bookList"`
}
