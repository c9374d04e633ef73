package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driving"
)

// DocumentResponse describes an ingested document.
type DocumentResponse struct {
	DocumentID   string    `json:"document_id"`
	DocumentName string    `json:"document_name"`
	IndexName    string    `json:"index_name"`
	ChunkCount   int       `json:"chunk_count"`
	ObjectURL    string    `json:"object_url,omitempty"`
	Turns        int       `json:"turns"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UploadResponse is returned after ingestion.
type UploadResponse struct {
	DocumentID string `json:"document_id"`
	IndexName  string `json:"index_name"`
	ChunkCount int    `json:"chunk_count"`
	ObjectURL  string `json:"object_url,omitempty"`
	Summary    string `json:"summary,omitempty"`
}

// MessagesResponse holds a document's history.
type MessagesResponse struct {
	DocumentID string           `json:"document_id"`
	Messages   []domain.Message `json:"messages"`
}

// AskRequest is the body of a question.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// AskResponse carries an answer.
type AskResponse struct {
	DocumentID string `json:"document_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

// SummaryResponse carries a sectioned summary.
type SummaryResponse struct {
	DocumentID string `json:"document_id"`
	Summary    string `json:"summary"`
}

func toDocumentResponse(c *domain.Conversation) DocumentResponse {
	return DocumentResponse{
		DocumentID:   c.DocumentID,
		DocumentName: c.DocumentName,
		IndexName:    c.IndexName,
		ChunkCount:   c.ChunkCount,
		ObjectURL:    c.ObjectURL,
		Turns:        c.Turns(),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// uploadDocument ingests a multipart "file" and optionally summarises it.
func (s *Server) uploadDocument(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)

	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, fmt.Errorf("%w: multipart field \"file\": %w", domain.ErrInvalidParameter, err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, fmt.Errorf("%w: open upload %s: %w", domain.ErrIO, fh.Filename, err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, fmt.Errorf("%w: read upload %s: %w", domain.ErrIO, fh.Filename, err))
		return
	}

	summarize := false
	if raw := c.Query("summarize"); raw != "" {
		summarize, err = strconv.ParseBool(raw)
		if err != nil {
			respondError(c, fmt.Errorf("%w: summarize must be a boolean", domain.ErrInvalidParameter))
			return
		}
	}

	ctx := c.Request.Context()
	result, err := s.ports.Pipeline.Ingest(ctx, driving.IngestRequest{
		Data:     data,
		FileName: fh.Filename,
		Name:     c.PostForm("name"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := UploadResponse{
		DocumentID: result.DocumentID,
		IndexName:  result.IndexName,
		ChunkCount: result.ChunkCount,
		ObjectURL:  result.ObjectURL,
	}
	if summarize {
		summary, err := s.ports.Pipeline.Summarize(ctx, result.DocumentID)
		if err != nil {
			respondError(c, err)
			return
		}
		resp.Summary = summary
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) listDocuments(c *gin.Context) {
	convs, err := s.ports.Conversations.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	docs := make([]DocumentResponse, 0, len(convs))
	for i := range convs {
		docs = append(docs, toDocumentResponse(&convs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (s *Server) getDocument(c *gin.Context) {
	conv, err := s.ports.Conversations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDocumentResponse(conv))
}

func (s *Server) listMessages(c *gin.Context) {
	conv, err := s.ports.Conversations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	msgs := conv.History
	if msgs == nil {
		msgs = []domain.Message{}
	}
	c.JSON(http.StatusOK, MessagesResponse{DocumentID: conv.DocumentID, Messages: msgs})
}

func (s *Server) askQuestion(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: question is required: %w", domain.ErrInvalidParameter, err))
		return
	}

	id := c.Param("id")
	answer, err := s.ports.Pipeline.Ask(c.Request.Context(), id, req.Question)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AskResponse{DocumentID: id, Question: req.Question, Answer: answer})
}

func (s *Server) summarizeDocument(c *gin.Context) {
	id := c.Param("id")
	summary, err := s.ports.Pipeline.Summarize(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SummaryResponse{DocumentID: id, Summary: summary})
}
