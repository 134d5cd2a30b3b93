package generator

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"vtobot/internal/core/domain"

	"github.com/rs/zerolog/log"
)

// Nova provides a wrapper for the Nova Canvas virtual try-on API.
type Nova struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewNova returns a client for the given inference endpoint. The timeout
// bounds the full round trip, generation regularly takes minutes.
func NewNova(endpoint, apiKey string, timeout time.Duration) *Nova {
	return &Nova{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type tryOnRequest struct {
	TaskType              string                `json:"taskType"`
	VirtualTryOnParams    virtualTryOnParams    `json:"virtualTryOnParams"`
	ImageGenerationConfig imageGenerationConfig `json:"imageGenerationConfig"`
}

type virtualTryOnParams struct {
	SourceImage      string           `json:"sourceImage"`
	ReferenceImage   string           `json:"referenceImage"`
	MaskType         string           `json:"maskType"`
	GarmentBasedMask garmentBasedMask `json:"garmentBasedMask"`
}

type garmentBasedMask struct {
	GarmentClass string `json:"garmentClass"`
}

type imageGenerationConfig struct {
	NumberOfImages int     `json:"numberOfImages"`
	Height         int     `json:"height"`
	Width          int     `json:"width"`
	CfgScale       float64 `json:"cfgScale"`
	Seed           int64   `json:"seed"`
}

type tryOnResponse struct {
	Images []string `json:"images"`
	Error  string   `json:"error"`
}

func (n *Nova) GenerateTryOn(ctx context.Context, request domain.TryOnRequest) ([]byte, error) {
	if request.SourceImage == "" {
		return nil, errors.New("missing source image")
	}

	if request.ReferenceImage == "" {
		return nil, errors.New("missing reference image")
	}

	novaRequest := tryOnRequest{
		TaskType: "VIRTUAL_TRY_ON",
		VirtualTryOnParams: virtualTryOnParams{
			SourceImage:      request.SourceImage,
			ReferenceImage:   request.ReferenceImage,
			MaskType:         "GARMENT",
			GarmentBasedMask: garmentBasedMask{GarmentClass: string(request.GarmentClass)},
		},
		ImageGenerationConfig: imageGenerationConfig{
			NumberOfImages: 1,
			Height:         request.Params.Height,
			Width:          request.Params.Width,
			CfgScale:       request.Params.CfgScale,
			Seed:           request.Params.Seed,
		},
	}

	payloadBuf := new(bytes.Buffer)
	err := json.NewEncoder(payloadBuf).Encode(novaRequest)
	if err != nil {
		return nil, fmt.Errorf("error encoding try-on request: %w", err)
	}

	body, err := n.postNovaRequest(ctx, payloadBuf)
	if err != nil {
		return nil, fmt.Errorf("try-on request failed: %w", err)
	}

	var result tryOnResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("error unmarshalling try-on response: %w", err)
	}

	if result.Error != "" {
		return nil, fmt.Errorf("try-on API rejected the request: %s", result.Error)
	}

	if len(result.Images) == 0 {
		return nil, errors.New("no images returned in try-on response")
	}

	log.Debug().Int("images", len(result.Images)).Msg("nova tryOnResponse")

	generated, err := base64.StdEncoding.DecodeString(result.Images[0])
	if err != nil {
		return nil, fmt.Errorf("error decoding generated image: %w", err)
	}

	return generated, nil
}

func (n *Nova) postNovaRequest(ctx context.Context, payloadBuf *bytes.Buffer) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, payloadBuf)
	if err != nil {
		log.Error().Err(err).Msg("error creating POST request for nova")
		return nil, err
	}

	req.Header.Add("Authorization", "Bearer "+n.apiKey)
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")

	res, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error executing nova request: %w", err)
	}

	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading nova response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code from nova: %d", res.StatusCode)
	}

	return body, nil
}
