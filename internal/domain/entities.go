package domain

// Format identifies the source file format of a document.
type Format string

const (
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
)

// Document is a loaded, normalized source document. Immutable after load.
type Document struct {
	ID     string
	Source string // original path
	Name   string // base name, used for citations
	Format Format
	Text   string // normalized plain text
}

// Chunk is a contiguous piece of a document sized for embedding.
// StartOffset and EndOffset are rune offsets into the document's
// normalized text; consecutive chunks of the same document overlap by
// the configured overlap except possibly at the final chunk.
type Chunk struct {
	ID          string
	DocID       string
	Source      string // source document name, carried for citations
	Seq         int
	Text        string
	StartOffset int
	EndOffset   int
}

// RetrievalResult is one ranked chunk produced by a query. Ephemeral.
type RetrievalResult struct {
	Chunk Chunk
	Score float64
	Rank  int
}

// Citation attributes a retrieved chunk back to its source document.
type Citation struct {
	Text        string  `json:"text"`
	Source      string  `json:"source"`
	StartOffset int     `json:"start_offset"`
	EndOffset   int     `json:"end_offset"`
	Score       float64 `json:"score"`
	Rank        int     `json:"rank"`
}

// Response is the answer context returned for one question.
type Response struct {
	Query   string     `json:"query"`
	Results []Citation `json:"results"`
}

// LoadedDoc describes one successfully ingested document.
type LoadedDoc struct {
	Source string `json:"source"`
	DocID  string `json:"doc_id"`
	Chunks int    `json:"chunks"`
}

// FailedDoc describes one document that could not be ingested.
type FailedDoc struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// LoadReport summarizes a corpus load. Per-document failures never
// abort the batch; they accumulate here.
type LoadReport struct {
	Loaded []LoadedDoc `json:"loaded"`
	Failed []FailedDoc `json:"failed"`
}

// Stats describes the currently indexed corpus.
type Stats struct {
	TotalDocs   int     `json:"total_docs"`
	TotalChunks int     `json:"total_chunks"`
	AvgChunkLen float64 `json:"avg_chunk_len"`
}
