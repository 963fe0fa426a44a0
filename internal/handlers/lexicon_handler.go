package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anonrelay/backend/internal/models"
	"github.com/anonrelay/backend/internal/profanity"
)

type LexiconHandler struct {
	matcher *profanity.Matcher
}

func NewLexiconHandler(matcher *profanity.Matcher) *LexiconHandler {
	return &LexiconHandler{matcher: matcher}
}

// ListWords returns the stored word list for a language
func (h *LexiconHandler) ListWords(c *gin.Context) {
	language := c.Param("language")
	words, err := h.matcher.Words(language)
	if err != nil {
		if errors.Is(err, models.ErrUnknownLanguage) {
			ErrorResponse(c, http.StatusNotFound, "Unknown language")
			return
		}
		log.Printf("Failed to list lexicon words: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list words")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"language": language,
		"count":    len(words),
		"words":    words,
	})
}

// AddWord adds a word to a language's list; new submissions see it immediately
func (h *LexiconHandler) AddWord(c *gin.Context) {
	language := c.Param("language")

	var req models.AddWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.matcher.AddWord(req.Word, language); err != nil {
		switch {
		case errors.Is(err, models.ErrUnknownLanguage):
			ErrorResponse(c, http.StatusNotFound, "Unknown language")
		case errors.Is(err, profanity.ErrEmptyWord):
			ErrorResponse(c, http.StatusBadRequest, "Word must not be empty")
		default:
			log.Printf("Failed to add lexicon word: %v", err)
			ErrorResponse(c, http.StatusInternalServerError, "Failed to add word")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"language": language,
		"word":     req.Word,
	})
}

// RemoveWord deletes a word from a language's list
func (h *LexiconHandler) RemoveWord(c *gin.Context) {
	language := c.Param("language")
	word := c.Param("word")

	removed, err := h.matcher.RemoveWord(word, language)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnknownLanguage):
			ErrorResponse(c, http.StatusNotFound, "Unknown language")
		case errors.Is(err, profanity.ErrEmptyWord):
			ErrorResponse(c, http.StatusBadRequest, "Word must not be empty")
		default:
			log.Printf("Failed to remove lexicon word: %v", err)
			ErrorResponse(c, http.StatusInternalServerError, "Failed to remove word")
		}
		return
	}
	if !removed {
		ErrorResponse(c, http.StatusNotFound, "Word not in list")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"language": language,
		"word":     word,
		"removed":  true,
	})
}
