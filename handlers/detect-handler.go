package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/itzjapcee-code/mosquito-tracker/inference"
)

// maxAudioBytes bounds an uploaded clip at 10 MB.
const maxAudioBytes = 10 << 20

type DetectHandler struct {
	classifier inference.Classifier
}

func NewDetectHandler(classifier inference.Classifier) *DetectHandler {
	return &DetectHandler{classifier: classifier}
}

// Detect forwards an uploaded audio clip to the external classifier and
// returns its label and confidence. The ?model= query parameter selects the
// model variant.
func (h *DetectHandler) Detect(w http.ResponseWriter, r *http.Request) {
	model := r.URL.Query().Get("model")
	if model == "" {
		model = "cnn"
	}

	audio, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAudioBytes))
	if err != nil {
		http.Error(w, "failed to read audio body", http.StatusBadRequest)
		return
	}
	if len(audio) == 0 {
		http.Error(w, "audio body is empty", http.StatusBadRequest)
		return
	}

	result, err := h.classifier.Classify(r.Context(), audio, model)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}
