package lti

import "strings"

// MessageType is the lti_message_type value.
type MessageType string

const (
	MessageTypeBasicLaunch                 MessageType = "basic-lti-launch-request"
	MessageTypeContentItemSelectionRequest MessageType = "ContentItemSelectionRequest"
	MessageTypeContentItemSelection        MessageType = "ContentItemSelection"
	MessageTypeToolProxyRegistration       MessageType = "ToolProxyRegistrationRequest"
	MessageTypeToolProxyReregistration     MessageType = "ToolProxyReregistrationRequest"
)

// Version is the lti_version value.
type Version string

const (
	Version1 Version = "LTI-1p0"
	Version2 Version = "LTI-2p0"
)

// DocumentTarget is the launch_presentation_document_target value.
type DocumentTarget string

const (
	DocumentTargetEmbed   DocumentTarget = "embed"
	DocumentTargetFrame   DocumentTarget = "frame"
	DocumentTargetIframe  DocumentTarget = "iframe"
	DocumentTargetNone    DocumentTarget = "none"
	DocumentTargetOverlay DocumentTarget = "overlay"
	DocumentTargetPopup   DocumentTarget = "popup"
	DocumentTargetWindow  DocumentTarget = "window"
)

var documentTargets = []DocumentTarget{
	DocumentTargetEmbed, DocumentTargetFrame, DocumentTargetIframe, DocumentTargetNone,
	DocumentTargetOverlay, DocumentTargetPopup, DocumentTargetWindow,
}

// ParseDocumentTarget matches case-insensitively and reports whether s is a known target.
func ParseDocumentTarget(s string) (DocumentTarget, bool) {
	for _, t := range documentTargets {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, true
		}
	}
	return "", false
}

// ContextType is the context_type value. Launches may carry the short name or the URN.
type ContextType string

const (
	ContextTypeCourseTemplate ContextType = "CourseTemplate"
	ContextTypeCourseOffering ContextType = "CourseOffering"
	ContextTypeCourseSection  ContextType = "CourseSection"
	ContextTypeGroup          ContextType = "Group"
)

const contextTypeURNPrefix = "urn:lti:context-type:ims/lis/"

// URN returns the full context type URN.
func (c ContextType) URN() string {
	return contextTypeURNPrefix + string(c)
}

// ParseContextType accepts the short name or the URN, case-insensitively.
func ParseContextType(s string) (ContextType, bool) {
	s = strings.TrimSpace(s)
	if len(s) > len(contextTypeURNPrefix) && strings.EqualFold(s[:len(contextTypeURNPrefix)], contextTypeURNPrefix) {
		s = s[len(contextTypeURNPrefix):]
	}
	for _, c := range []ContextType{ContextTypeCourseTemplate, ContextTypeCourseOffering, ContextTypeCourseSection, ContextTypeGroup} {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}
