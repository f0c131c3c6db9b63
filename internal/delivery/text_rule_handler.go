package delivery

import (
	"net/http"

	json "github.com/goccy/go-json"

	tr "github.com/Vovarama1992/saga_tts/internal/textrules"
)

type TextRuleHandler struct {
	repo tr.Repo
}

func NewTextRuleHandler(repo tr.Repo) *TextRuleHandler {
	return &TextRuleHandler{repo: repo}
}

type ruleBody struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func decodeRule(w http.ResponseWriter, r *http.Request, needTo bool) (ruleBody, bool) {
	var body ruleBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return body, false
	}
	if body.From == "" || (needTo && body.To == "") {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return body, false
	}
	return body, true
}

// GET /text-rules/letters
func (h *TextRuleHandler) ListLetterRules(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.ListLetterRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /text-rules/letters
// body: { "from": "ё", "to": "е" }
func (h *TextRuleHandler) AddLetterRule(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeRule(w, r, true)
	if !ok {
		return
	}
	if err := h.repo.AddLetterRule(r.Context(), body.From, body.To); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /text-rules/letters
// body: { "from": "ё" }
func (h *TextRuleHandler) DeleteLetterRule(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeRule(w, r, false)
	if !ok {
		return
	}
	if err := h.repo.DeleteLetterRule(r.Context(), body.From); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /text-rules/words
func (h *TextRuleHandler) ListWordRules(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.ListWordRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /text-rules/words
// body: { "from": "Bramblewick", "to": "Brambleweek" }
func (h *TextRuleHandler) AddWordRule(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeRule(w, r, true)
	if !ok {
		return
	}
	if err := h.repo.AddWordRule(r.Context(), body.From, body.To); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /text-rules/words
// body: { "from": "Bramblewick" }
func (h *TextRuleHandler) DeleteWordRule(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeRule(w, r, false)
	if !ok {
		return
	}
	if err := h.repo.DeleteWordRule(r.Context(), body.From); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
