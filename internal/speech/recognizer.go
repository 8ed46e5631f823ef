package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bz888/stockchat/internal/logger"
)

const googleRecognizeURL = "http://www.google.com/speech-api/v2/recognize"

type Alternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

type Result struct {
	Alternative []Alternative `json:"alternative"`
	Final       bool          `json:"final"`
}

type Response struct {
	Result []Result `json:"result"`
}

// GoogleRecognizer posts FLAC audio to the Google speech API.
type GoogleRecognizer struct {
	endpoint string
	apiKey   string
	language string
	http     *http.Client
}

func NewGoogleRecognizer(apiKey, language string) *GoogleRecognizer {
	if language == "" {
		language = "en-US"
	}
	return &GoogleRecognizer{
		endpoint: googleRecognizeURL,
		apiKey:   apiKey,
		language: language,
		http:     &http.Client{},
	}
}

func (g *GoogleRecognizer) Recognize(ctx context.Context, flacData []byte, sampleRate int) (string, float64, error) {
	localLogger := logger.NewLogger("recognizer")

	data := url.Values{}
	data.Set("client", "chromium")
	data.Set("lang", g.language)
	data.Set("key", g.apiKey)
	data.Set("pFilter", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"?"+data.Encode(), bytes.NewReader(flacData))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "audio/x-flac; rate="+strconv.Itoa(sampleRate))

	resp, err := g.http.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}
	localLogger.Debug("Response status: ", resp.Status, " body: ", string(body))

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("recognizer returned %s", resp.Status)
	}

	return parseRecognition(string(body))
}

// parseRecognition reads the newline-delimited reply, where the first lines
// are usually empty results, and returns the most confident alternative.
func parseRecognition(responseText string) (string, float64, error) {
	result, err := firstResult(responseText)
	if err != nil {
		return "", 0, err
	}

	best, err := findBestHypothesis(result.Alternative)
	if err != nil {
		return "", 0, err
	}

	confidence := best.Confidence
	if confidence == 0 {
		confidence = 0.5
	}
	return best.Transcript, confidence, nil
}

func firstResult(responseText string) (Result, error) {
	for _, line := range strings.Split(responseText, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var response Response
		if err := json.Unmarshal([]byte(line), &response); err != nil {
			return Result{}, fmt.Errorf("decode recognizer line: %w", err)
		}
		if len(response.Result) != 0 {
			if len(response.Result[0].Alternative) == 0 {
				return Result{}, ErrNoTranscript
			}
			return response.Result[0], nil
		}
	}
	return Result{}, ErrNoTranscript
}

func findBestHypothesis(alternatives []Alternative) (Alternative, error) {
	if len(alternatives) == 0 {
		return Alternative{}, errors.New("no alternatives provided")
	}

	var best Alternative
	highestConfidence := -1.0
	for _, alternative := range alternatives {
		if alternative.Confidence > highestConfidence {
			highestConfidence = alternative.Confidence
			best = alternative
		}
	}

	if best.Transcript == "" {
		return Alternative{}, ErrNoTranscript
	}
	return best, nil
}
