// Package outcomesv1 implements LTI 1.1 Basic Outcomes: the POX ("plain old XML") envelopes for
// replaceResult, readResult and deleteResult, a client for calling a Tool Consumer's outcome
// service, and the Tool Consumer side handler.
//
// Request and response envelopes are separate types, each with its own encode and decode.
package outcomesv1

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/ltilibrary/lti-go/internal/transport"
)

const (
	// Namespace is the XML namespace of both envelopes.
	Namespace = "http://www.imsglobal.org/services/ltiv1p1/xsd/imsoms_v1p0"

	// MediaType is sent as Content-Type and Accept.
	MediaType = "application/vnd.ims.lis.v1.outcome+xml"

	// POXVersion is the imsx_version value.
	POXVersion = "V1.0"
)

// ScoreLanguage is the language of every resultScore this package writes. Scores are always
// formatted with a period decimal separator.
var ScoreLanguage = language.English

// Operation names a POX operation (the element name without its Request/Response suffix).
type Operation string

const (
	OperationReplaceResult Operation = "replaceResult"
	OperationReadResult    Operation = "readResult"
	OperationDeleteResult  Operation = "deleteResult"
)

// CodeMajor is imsx_codeMajor.
type CodeMajor string

const (
	CodeMajorSuccess     CodeMajor = "success"
	CodeMajorProcessing  CodeMajor = "processing"
	CodeMajorFailure     CodeMajor = "failure"
	CodeMajorUnsupported CodeMajor = "unsupported"
)

// Severity is imsx_severity.
type Severity string

const (
	SeverityStatus  Severity = "status"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ResultScore is the score of a result record.
type ResultScore struct {
	Language   string `xml:"language"`
	TextString string `xml:"textString"`
}

// Result wraps the score. A nil ResultScore means no score.
type Result struct {
	ResultScore *ResultScore `xml:"resultScore,omitempty"`
}

// ResultRecord identifies the result by its opaque lis_result_sourcedid.
type ResultRecord struct {
	SourcedID string  `xml:"sourcedGUID>sourcedId"`
	Result    *Result `xml:"result,omitempty"`
}

// ResultRequest is the body of all three request operations.
type ResultRequest struct {
	ResultRecord ResultRecord `xml:"resultRecord"`
}

// RequestHeader is imsx_POXRequestHeaderInfo.
type RequestHeader struct {
	Version           string `xml:"imsx_version"`
	MessageIdentifier string `xml:"imsx_messageIdentifier"`
}

// element records the name of an operation this package does not model.
type element struct {
	XMLName xml.Name
}

// RequestBody holds exactly one operation.
type RequestBody struct {
	ReplaceResult *ResultRequest `xml:"replaceResultRequest"`
	ReadResult    *ResultRequest `xml:"readResultRequest"`
	DeleteResult  *ResultRequest `xml:"deleteResultRequest"`
	Other         []element      `xml:",any"`
}

// RequestEnvelope is imsx_POXEnvelopeRequest.
type RequestEnvelope struct {
	XMLName xml.Name      `xml:"imsx_POXEnvelopeRequest"`
	Xmlns   string        `xml:"xmlns,attr,omitempty"`
	Header  RequestHeader `xml:"imsx_POXHeader>imsx_POXRequestHeaderInfo"`
	Body    RequestBody   `xml:"imsx_POXBody"`
}

// StatusInfo is imsx_statusInfo.
type StatusInfo struct {
	CodeMajor              CodeMajor `xml:"imsx_codeMajor"`
	Severity               Severity  `xml:"imsx_severity"`
	Description            string    `xml:"imsx_description,omitempty"`
	MessageRefIdentifier   string    `xml:"imsx_messageRefIdentifier"`
	OperationRefIdentifier string    `xml:"imsx_operationRefIdentifier,omitempty"`
}

// ResponseHeader is imsx_POXResponseHeaderInfo.
type ResponseHeader struct {
	Version           string     `xml:"imsx_version"`
	MessageIdentifier string     `xml:"imsx_messageIdentifier"`
	StatusInfo        StatusInfo `xml:"imsx_statusInfo"`
}

// EmptyResponse is the body of replaceResultResponse and deleteResultResponse.
type EmptyResponse struct{}

// ReadResultResponse carries the score that was read.
type ReadResultResponse struct {
	Result *Result `xml:"result,omitempty"`
}

// ResponseBody holds the response to the requested operation. It is empty for failures.
type ResponseBody struct {
	ReplaceResult *EmptyResponse      `xml:"replaceResultResponse"`
	ReadResult    *ReadResultResponse `xml:"readResultResponse"`
	DeleteResult  *EmptyResponse      `xml:"deleteResultResponse"`
}

// ResponseEnvelope is imsx_POXEnvelopeResponse.
type ResponseEnvelope struct {
	XMLName xml.Name       `xml:"imsx_POXEnvelopeResponse"`
	Xmlns   string         `xml:"xmlns,attr,omitempty"`
	Header  ResponseHeader `xml:"imsx_POXHeader>imsx_POXResponseHeaderInfo"`
	Body    ResponseBody   `xml:"imsx_POXBody"`
}

// FormatScore formats a score independently of the host locale.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// ParseScore parses a textString written with a period decimal separator.
func ParseScore(textString string) (float64, error) {
	score, err := strconv.ParseFloat(strings.TrimSpace(textString), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid score %q: %w", textString, err)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("invalid score %q", textString)
	}
	return score, nil
}

func newResultScore(score *float64) *Result {
	if score == nil {
		return nil
	}
	return &Result{ResultScore: &ResultScore{Language: ScoreLanguage.String(), TextString: FormatScore(*score)}}
}

// Score returns the parsed score, or nil when the result carries none. The language is ignored.
func (r *Result) Score() (*float64, error) {
	if r == nil || r.ResultScore == nil || strings.TrimSpace(r.ResultScore.TextString) == "" {
		return nil, nil
	}
	// the text is always a period decimal, whatever language the sender declared
	score, err := ParseScore(r.ResultScore.TextString)
	if err != nil {
		return nil, err
	}
	return &score, nil
}

func newRequestEnvelope(messageID string) *RequestEnvelope {
	return &RequestEnvelope{
		Xmlns:  Namespace,
		Header: RequestHeader{Version: POXVersion, MessageIdentifier: messageID},
	}
}

// NewReplaceResultRequest builds a replaceResult request. A nil score sends no resultScore.
func NewReplaceResultRequest(messageID, sourcedID string, score *float64) *RequestEnvelope {
	env := newRequestEnvelope(messageID)
	env.Body.ReplaceResult = &ResultRequest{ResultRecord: ResultRecord{SourcedID: sourcedID, Result: newResultScore(score)}}
	return env
}

// NewReadResultRequest builds a readResult request.
func NewReadResultRequest(messageID, sourcedID string) *RequestEnvelope {
	env := newRequestEnvelope(messageID)
	env.Body.ReadResult = &ResultRequest{ResultRecord: ResultRecord{SourcedID: sourcedID}}
	return env
}

// NewDeleteResultRequest builds a deleteResult request.
func NewDeleteResultRequest(messageID, sourcedID string) *RequestEnvelope {
	env := newRequestEnvelope(messageID)
	env.Body.DeleteResult = &ResultRequest{ResultRecord: ResultRecord{SourcedID: sourcedID}}
	return env
}

// Operation returns the requested operation and its record. The record is nil for operations
// this package does not model and for an empty body.
func (e *RequestEnvelope) Operation() (Operation, *ResultRecord) {
	switch {
	case e.Body.ReplaceResult != nil:
		return OperationReplaceResult, &e.Body.ReplaceResult.ResultRecord
	case e.Body.ReadResult != nil:
		return OperationReadResult, &e.Body.ReadResult.ResultRecord
	case e.Body.DeleteResult != nil:
		return OperationDeleteResult, &e.Body.DeleteResult.ResultRecord
	case len(e.Body.Other) > 0:
		return Operation(strings.TrimSuffix(e.Body.Other[0].XMLName.Local, "Request")), nil
	default:
		return "", nil
	}
}

// NewResponse answers request with the given status. The message and operation reference
// identifiers are copied from the request.
func NewResponse(messageID string, request *RequestEnvelope, codeMajor CodeMajor, description string) *ResponseEnvelope {
	operation, _ := request.Operation()
	severity := SeverityStatus
	if codeMajor != CodeMajorSuccess {
		severity = SeverityError
	}
	return &ResponseEnvelope{
		Xmlns: Namespace,
		Header: ResponseHeader{
			Version:           POXVersion,
			MessageIdentifier: messageID,
			StatusInfo: StatusInfo{
				CodeMajor:              codeMajor,
				Severity:               severity,
				Description:            description,
				MessageRefIdentifier:   request.Header.MessageIdentifier,
				OperationRefIdentifier: string(operation),
			},
		},
	}
}

// SetReadScore fills the readResultResponse body.
func (e *ResponseEnvelope) SetReadScore(score *float64) {
	e.Body.ReadResult = &ReadResultResponse{Result: newResultScore(score)}
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeRequest serializes a request envelope with an XML declaration.
func EncodeRequest(env *RequestEnvelope) ([]byte, error) {
	data, err := encode(env)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request envelope: %w", err)
	}
	return data, nil
}

// DecodeRequest parses a request envelope.
//
// Errors have code transport.ErrCodeMalformedEnvelope.
func DecodeRequest(data []byte) (*RequestEnvelope, error) {
	var env RequestEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, transport.WrapMalformedEnvelopeError(err, transport.Exchange{}, "malformed imsx_POXEnvelopeRequest")
	}
	return &env, nil
}

// EncodeResponse serializes a response envelope with an XML declaration.
func EncodeResponse(env *ResponseEnvelope) ([]byte, error) {
	data, err := encode(env)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response envelope: %w", err)
	}
	return data, nil
}

// DecodeResponse parses a response envelope.
//
// Errors have code transport.ErrCodeMalformedEnvelope.
func DecodeResponse(data []byte) (*ResponseEnvelope, error) {
	var env ResponseEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, transport.WrapMalformedEnvelopeError(err, transport.Exchange{}, "malformed imsx_POXEnvelopeResponse")
	}
	if env.Header.StatusInfo.CodeMajor == "" {
		return nil, transport.NewMalformedEnvelopeError(transport.Exchange{}, "imsx_POXEnvelopeResponse has no imsx_codeMajor")
	}
	return &env, nil
}
