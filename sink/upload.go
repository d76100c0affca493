package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bitrise-io/bitrise/models"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/retryhttp"
	"github.com/bitrise-steplib/steps-maven-test-results/resulttree"
	"github.com/docker/go-units"
	"github.com/hashicorp/go-retryablehttp"
)

// maxXMLSize limits the size of the uploaded report
const maxXMLSize = 100 * units.MiB

const maxErrorResponseSize = 4 * units.KiB

// UploadStage names a request of the upload.
type UploadStage string

// Upload stages, in the order they run.
const (
	StageRegister UploadStage = "registration"
	StageStore    UploadStage = "upload"
	StageFinalise UploadStage = "finalisation"
)

// APIError is returned when an upload stage is answered with a non-2xx status.
type APIError struct {
	Stage      UploadStage
	StatusCode int
	Response   string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("test report %s rejected with status %d", e.Stage, e.StatusCode)
	if e.Response != "" {
		msg += ": " + e.Response
	}
	return msg
}

// FileInfo ...
type FileInfo struct {
	FileName string `json:"filename"`
	FileSize int    `json:"filesize"`
}

// UploadURL ...
type UploadURL struct {
	FileName string `json:"filename"`
	URL      string `json:"upload_url"`
}

// UploadRequest ...
type UploadRequest struct {
	Name string                    `json:"name"`
	Step models.TestResultStepInfo `json:"step_info"`
	FileInfo
}

// UploadResponse ...
type UploadResponse struct {
	ID string `json:"id"`
	UploadURL
}

// UploadConfig holds the test report API access of the build.
type UploadConfig struct {
	BaseURL   string
	Token     string
	AppSlug   string
	BuildSlug string
	TestName  string
	StepInfo  models.TestResultStepInfo
}

func (c UploadConfig) enabled() bool {
	return c.BaseURL != "" && c.Token != "" && c.AppSlug != "" && c.BuildSlug != ""
}

// UploadSink registers the merged report with the test report API, uploads it and finalises it.
type UploadSink struct {
	config  UploadConfig
	encoder ReportEncoder
	client  *retryablehttp.Client
	logger  log.Logger
}

// NewUploadSink ...
func NewUploadSink(config UploadConfig, encoder ReportEncoder, logger log.Logger) UploadSink {
	return UploadSink{
		config:  config,
		encoder: encoder,
		client:  retryhttp.NewClient(logger),
		logger:  logger,
	}
}

// Accept uploads the merged report of tree. It does nothing if the API access is not configured.
func (s UploadSink) Accept(tree *resulttree.Tree) error {
	if !s.config.enabled() {
		s.logger.Debugf("Test report API is not configured, skipping upload")
		return nil
	}

	xmlContent, err := s.encoder.Encode(tree)
	if err != nil {
		return err
	}
	if len(xmlContent) > maxXMLSize {
		return fmt.Errorf("the size of the test result XML (%s) exceeds the maximum allowed size of %s", units.BytesSize(float64(len(xmlContent))), units.BytesSize(maxXMLSize))
	}

	name := s.config.TestName
	if name == "" {
		name = tree.Node(tree.Root()).Name
	}
	s.logger.Printf("Uploading: %s (%s)", name, units.HumanSize(float64(len(xmlContent))))

	uploadReq := UploadRequest{
		Name: name,
		Step: s.config.StepInfo,
		FileInfo: FileInfo{
			FileName: ResultFileName,
			FileSize: len(xmlContent),
		},
	}
	registration, err := s.register(uploadReq)
	if err != nil {
		return err
	}
	if err := s.store(registration.URL, xmlContent); err != nil {
		return err
	}
	if err := s.finalise(registration.ID); err != nil {
		return err
	}

	s.logger.Donef("Uploaded test results: %s", name)

	return nil
}

// register announces the report to the test report API and returns where to upload it.
func (s UploadSink) register(uploadReq UploadRequest) (UploadResponse, error) {
	var registration UploadResponse

	body, err := json.Marshal(uploadReq)
	if err != nil {
		return registration, fmt.Errorf("failed to json encode upload request: %w", err)
	}
	req, err := retryablehttp.NewRequest(http.MethodPost, s.reportsURL(), body)
	if err != nil {
		return registration, err
	}

	resp, err := s.send(StageRegister, req)
	if err != nil {
		return registration, err
	}
	defer s.closeBody(resp)

	if err := json.NewDecoder(resp.Body).Decode(&registration); err != nil {
		return registration, fmt.Errorf("failed to decode test report registration: %w", err)
	}
	if registration.URL == "" {
		return registration, fmt.Errorf("test report registration (%s) has no upload URL", registration.ID)
	}
	return registration, nil
}

// store puts the report content to the storage URL handed out by register. The URL is presigned, no token is sent.
func (s UploadSink) store(uploadURL string, xmlContent []byte) error {
	req, err := retryablehttp.NewRequest(http.MethodPut, uploadURL, xmlContent)
	if err != nil {
		return err
	}

	resp, err := s.send(StageStore, req)
	if err != nil {
		return err
	}
	s.closeBody(resp)
	return nil
}

// finalise marks the registered report as uploaded.
func (s UploadSink) finalise(id string) error {
	req, err := retryablehttp.NewRequest(http.MethodPatch, s.reportsURL(id), []byte(`{"uploaded":true}`))
	if err != nil {
		return err
	}

	resp, err := s.send(StageFinalise, req)
	if err != nil {
		return err
	}
	s.closeBody(resp)
	return nil
}

// reportsURL addresses the build's test reports, the API token is the last path segment.
func (s UploadSink) reportsURL(segments ...string) string {
	parts := append([]string{s.config.BaseURL, "apps", s.config.AppSlug, "builds", s.config.BuildSlug, "test_reports"}, segments...)
	return strings.Join(append(parts, s.config.Token), "/")
}

// send returns the response of a successful stage. Any other status is turned into an *APIError and its body is consumed.
func (s UploadSink) send(stage UploadStage, req *retryablehttp.Request) (*http.Response, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("test report %s failed: %w", stage, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer s.closeBody(resp)

	apiErr := &APIError{Stage: stage, StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorResponseSize))
	if err != nil {
		s.logger.Warnf("Failed to read test report %s response: %s", stage, err)
	} else {
		apiErr.Response = strings.TrimSpace(string(body))
	}
	return nil, apiErr
}

func (s UploadSink) closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		s.logger.Warnf("Failed to close body: %s", err)
	}
}
