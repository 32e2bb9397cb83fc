package lti

import (
	"strconv"
	"strings"

	"github.com/ltilibrary/lti-go/internal/oauth"
)

// Request is a typed view over the parameters of one LTI message.
//
// Every accessor reads and writes the same underlying oauth.Parameters, so the store is always
// the single source of truth for signing. Setting an optional field to its zero value removes
// the parameter. Unknown parameters are kept untouched.
type Request struct {
	// Method is the HTTP method the message is sent with (POST for launches).
	Method string

	// URL is the absolute url of the launch or return endpoint.
	URL string

	params *oauth.Parameters
}

// NewRequest returns an empty request.
func NewRequest(method, url string) *Request {
	return &Request{Method: method, URL: url, params: &oauth.Parameters{}}
}

// NewRequestFromParameters wraps an existing store (typically from an inbound request).
// The request takes ownership of params.
func NewRequestFromParameters(method, url string, params *oauth.Parameters) *Request {
	if params == nil {
		params = &oauth.Parameters{}
	}
	return &Request{Method: method, URL: url, params: params}
}

// Parameters returns the underlying store.
func (r *Request) Parameters() *oauth.Parameters {
	return r.params
}

// Get returns the value of any parameter, known or not.
func (r *Request) Get(name string) string {
	return r.params.Get(name)
}

// Set writes any parameter; an empty value removes it.
func (r *Request) Set(name, value string) {
	r.set(name, value)
}

func (r *Request) get(name string) string {
	return r.params.Get(name)
}

func (r *Request) set(name, value string) {
	if value == "" {
		r.params.Del(name)
		return
	}
	r.params.Set(name, value)
}

// getBool returns the value and whether the parameter was present and parseable.
func (r *Request) getBool(name string) (bool, bool) {
	v, err := strconv.ParseBool(r.get(name))
	if err != nil {
		return false, false
	}
	return v, true
}

func (r *Request) setBool(name string, v bool) {
	r.params.Set(name, strconv.FormatBool(v))
}

func (r *Request) getInt(name string) (int, bool) {
	v, err := strconv.Atoi(r.get(name))
	if err != nil {
		return 0, false
	}
	return v, true
}

func (r *Request) setInt(name string, v int) {
	r.params.Set(name, strconv.Itoa(v))
}

func (r *Request) MessageType() MessageType { return MessageType(r.get(ParamLtiMessageType)) }
func (r *Request) SetMessageType(v MessageType) { r.set(ParamLtiMessageType, string(v)) }
func (r *Request) Version() Version { return Version(r.get(ParamLtiVersion)) }
func (r *Request) SetVersion(v Version) { r.set(ParamLtiVersion, string(v)) }
func (r *Request) ConsumerKey() string { return r.get(oauth.ParamConsumerKey) }

// ContextType returns the context type whether it was sent as a short name or a URN.
func (r *Request) ContextType() (ContextType, bool) {
	return ParseContextType(r.get(ParamContextType))
}

// SetContextType writes the full URN.
func (r *Request) SetContextType(v ContextType) {
	if v == "" {
		r.set(ParamContextType, "")
		return
	}
	r.set(ParamContextType, v.URN())
}

func (r *Request) DocumentTarget() (DocumentTarget, bool) {
	return ParseDocumentTarget(r.get(ParamLaunchPresentationDocumentTarget))
}

func (r *Request) SetDocumentTarget(v DocumentTarget) {
	r.set(ParamLaunchPresentationDocumentTarget, string(v))
}

// AcceptPresentationDocumentTargets parses the comma-separated list, skipping unknown targets.
func (r *Request) AcceptPresentationDocumentTargets() []DocumentTarget {
	var targets []DocumentTarget
	for _, token := range strings.Split(r.get(ParamAcceptPresentationDocumentTargets), ",") {
		if t, ok := ParseDocumentTarget(token); ok {
			targets = append(targets, t)
		}
	}
	return targets
}

func (r *Request) SetAcceptPresentationDocumentTargets(targets ...DocumentTarget) {
	values := make([]string, len(targets))
	for i, t := range targets {
		values[i] = string(t)
	}
	r.set(ParamAcceptPresentationDocumentTargets, strings.Join(values, ","))
}

// Roles resolves the roles parameter. Unrecognised role tokens are dropped (see ParseRoles).
func (r *Request) Roles() []Role {
	return ParseRoles(strings.Join(r.params.Values(ParamRoles), ","))
}

// SetRoles writes the roles as comma-separated URNs.
func (r *Request) SetRoles(roles ...Role) {
	r.set(ParamRoles, FormatRoles(roles))
}

// HasRole reports whether role is among Roles.
func (r *Request) HasRole(role Role) bool {
	for _, have := range r.Roles() {
		if have == role {
			return true
		}
	}
	return false
}

// RoleScopeMentor lists the user ids a mentor launch is scoped to.
func (r *Request) RoleScopeMentor() []string {
	var ids []string
	for _, id := range strings.Split(r.get(ParamRoleScopeMentor), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func (r *Request) SetRoleScopeMentor(userIDs ...string) {
	r.set(ParamRoleScopeMentor, strings.Join(userIDs, ","))
}

func (r *Request) ResourceLinkID() string { return r.get(ParamResourceLinkID) }
func (r *Request) SetResourceLinkID(v string) { r.set(ParamResourceLinkID, v) }

func (r *Request) ResourceLinkTitle() string { return r.get(ParamResourceLinkTitle) }
func (r *Request) SetResourceLinkTitle(v string) { r.set(ParamResourceLinkTitle, v) }

func (r *Request) ResourceLinkDescription() string { return r.get(ParamResourceLinkDescription) }
func (r *Request) SetResourceLinkDescription(v string) { r.set(ParamResourceLinkDescription, v) }

func (r *Request) UserID() string { return r.get(ParamUserID) }
func (r *Request) SetUserID(v string) { r.set(ParamUserID, v) }

func (r *Request) UserImage() string { return r.get(ParamUserImage) }
func (r *Request) SetUserImage(v string) { r.set(ParamUserImage, v) }

func (r *Request) UserName() string { return r.get(ParamUserName) }
func (r *Request) SetUserName(v string) { r.set(ParamUserName, v) }

func (r *Request) PersonNameGiven() string { return r.get(ParamPersonNameGiven) }
func (r *Request) SetPersonNameGiven(v string) { r.set(ParamPersonNameGiven, v) }

func (r *Request) PersonNameFamily() string { return r.get(ParamPersonNameFamily) }
func (r *Request) SetPersonNameFamily(v string) { r.set(ParamPersonNameFamily, v) }

func (r *Request) PersonNameFull() string { return r.get(ParamPersonNameFull) }
func (r *Request) SetPersonNameFull(v string) { r.set(ParamPersonNameFull, v) }

func (r *Request) PersonEmailPrimary() string { return r.get(ParamPersonEmailPrimary) }
func (r *Request) SetPersonEmailPrimary(v string) { r.set(ParamPersonEmailPrimary, v) }

func (r *Request) PersonSourcedID() string { return r.get(ParamPersonSourcedID) }
func (r *Request) SetPersonSourcedID(v string) { r.set(ParamPersonSourcedID, v) }

func (r *Request) CourseOfferingSourcedID() string { return r.get(ParamCourseOfferingSourcedID) }
func (r *Request) SetCourseOfferingSourcedID(v string) { r.set(ParamCourseOfferingSourcedID, v) }

func (r *Request) CourseSectionSourcedID() string { return r.get(ParamCourseSectionSourcedID) }
func (r *Request) SetCourseSectionSourcedID(v string) { r.set(ParamCourseSectionSourcedID, v) }

func (r *Request) ContextID() string { return r.get(ParamContextID) }
func (r *Request) SetContextID(v string) { r.set(ParamContextID, v) }

func (r *Request) ContextTitle() string { return r.get(ParamContextTitle) }
func (r *Request) SetContextTitle(v string) { r.set(ParamContextTitle, v) }

func (r *Request) ContextLabel() string { return r.get(ParamContextLabel) }
func (r *Request) SetContextLabel(v string) { r.set(ParamContextLabel, v) }

func (r *Request) LaunchPresentationLocale() string { return r.get(ParamLaunchPresentationLocale) }
func (r *Request) SetLaunchPresentationLocale(v string) { r.set(ParamLaunchPresentationLocale, v) }

func (r *Request) LaunchPresentationCSSURL() string { return r.get(ParamLaunchPresentationCSSURL) }
func (r *Request) SetLaunchPresentationCSSURL(v string) { r.set(ParamLaunchPresentationCSSURL, v) }

func (r *Request) LaunchPresentationReturnURL() string { return r.get(ParamLaunchPresentationReturnURL) }
func (r *Request) SetLaunchPresentationReturnURL(v string) { r.set(ParamLaunchPresentationReturnURL, v) }

func (r *Request) ToolConsumerInfoProductFamilyCode() string { return r.get(ParamToolConsumerInfoProductFamilyCode) }
func (r *Request) SetToolConsumerInfoProductFamilyCode(v string) { r.set(ParamToolConsumerInfoProductFamilyCode, v) }

func (r *Request) ToolConsumerInfoVersion() string { return r.get(ParamToolConsumerInfoVersion) }
func (r *Request) SetToolConsumerInfoVersion(v string) { r.set(ParamToolConsumerInfoVersion, v) }

func (r *Request) ToolConsumerInstanceGUID() string { return r.get(ParamToolConsumerInstanceGUID) }
func (r *Request) SetToolConsumerInstanceGUID(v string) { r.set(ParamToolConsumerInstanceGUID, v) }

func (r *Request) ToolConsumerInstanceName() string { return r.get(ParamToolConsumerInstanceName) }
func (r *Request) SetToolConsumerInstanceName(v string) { r.set(ParamToolConsumerInstanceName, v) }

func (r *Request) ToolConsumerInstanceDescription() string { return r.get(ParamToolConsumerInstanceDescription) }
func (r *Request) SetToolConsumerInstanceDescription(v string) { r.set(ParamToolConsumerInstanceDescription, v) }

func (r *Request) ToolConsumerInstanceURL() string { return r.get(ParamToolConsumerInstanceURL) }
func (r *Request) SetToolConsumerInstanceURL(v string) { r.set(ParamToolConsumerInstanceURL, v) }

func (r *Request) ToolConsumerInstanceContactEmail() string { return r.get(ParamToolConsumerInstanceContactEmail) }
func (r *Request) SetToolConsumerInstanceContactEmail(v string) { r.set(ParamToolConsumerInstanceContactEmail, v) }

func (r *Request) LisOutcomeServiceURL() string { return r.get(ParamLisOutcomeServiceURL) }
func (r *Request) SetLisOutcomeServiceURL(v string) { r.set(ParamLisOutcomeServiceURL, v) }

func (r *Request) LisResultSourcedID() string { return r.get(ParamLisResultSourcedID) }
func (r *Request) SetLisResultSourcedID(v string) { r.set(ParamLisResultSourcedID, v) }

func (r *Request) LineItemsServiceURL() string { return r.get(ParamLineItemsServiceURL) }
func (r *Request) SetLineItemsServiceURL(v string) { r.set(ParamLineItemsServiceURL, v) }

func (r *Request) LineItemServiceURL() string { return r.get(ParamLineItemServiceURL) }
func (r *Request) SetLineItemServiceURL(v string) { r.set(ParamLineItemServiceURL, v) }

func (r *Request) ResultsServiceURL() string { return r.get(ParamResultsServiceURL) }
func (r *Request) SetResultsServiceURL(v string) { r.set(ParamResultsServiceURL, v) }

func (r *Request) ResultServiceURL() string { return r.get(ParamResultServiceURL) }
func (r *Request) SetResultServiceURL(v string) { r.set(ParamResultServiceURL, v) }

func (r *Request) MembershipsServiceURL() string { return r.get(ParamMembershipsServiceURL) }
func (r *Request) SetMembershipsServiceURL(v string) { r.set(ParamMembershipsServiceURL, v) }

func (r *Request) AcceptMediaTypes() string { return r.get(ParamAcceptMediaTypes) }
func (r *Request) SetAcceptMediaTypes(v string) { r.set(ParamAcceptMediaTypes, v) }

func (r *Request) ContentItemReturnURL() string { return r.get(ParamContentItemReturnURL) }
func (r *Request) SetContentItemReturnURL(v string) { r.set(ParamContentItemReturnURL, v) }

func (r *Request) ContentItems() string { return r.get(ParamContentItems) }
func (r *Request) SetContentItems(v string) { r.set(ParamContentItems, v) }

func (r *Request) ConfirmURL() string { return r.get(ParamConfirmURL) }
func (r *Request) SetConfirmURL(v string) { r.set(ParamConfirmURL, v) }

func (r *Request) Data() string { return r.get(ParamData) }
func (r *Request) SetData(v string) { r.set(ParamData, v) }

func (r *Request) Title() string { return r.get(ParamTitle) }
func (r *Request) SetTitle(v string) { r.set(ParamTitle, v) }

func (r *Request) Text() string { return r.get(ParamText) }
func (r *Request) SetText(v string) { r.set(ParamText, v) }

func (r *Request) LtiMsg() string { return r.get(ParamLtiMsg) }
func (r *Request) SetLtiMsg(v string) { r.set(ParamLtiMsg, v) }

func (r *Request) LtiLog() string { return r.get(ParamLtiLog) }
func (r *Request) SetLtiLog(v string) { r.set(ParamLtiLog, v) }

func (r *Request) LtiErrorMsg() string { return r.get(ParamLtiErrorMsg) }
func (r *Request) SetLtiErrorMsg(v string) { r.set(ParamLtiErrorMsg, v) }

func (r *Request) LtiErrorLog() string { return r.get(ParamLtiErrorLog) }
func (r *Request) SetLtiErrorLog(v string) { r.set(ParamLtiErrorLog, v) }

func (r *Request) RegKey() string { return r.get(ParamRegKey) }
func (r *Request) SetRegKey(v string) { r.set(ParamRegKey, v) }

func (r *Request) RegPassword() string { return r.get(ParamRegPassword) }
func (r *Request) SetRegPassword(v string) { r.set(ParamRegPassword, v) }

func (r *Request) TcProfileURL() string { return r.get(ParamTcProfileURL) }
func (r *Request) SetTcProfileURL(v string) { r.set(ParamTcProfileURL, v) }

func (r *Request) AcceptCopyAdvice() (bool, bool) { return r.getBool(ParamAcceptCopyAdvice) }
func (r *Request) SetAcceptCopyAdvice(v bool) { r.setBool(ParamAcceptCopyAdvice, v) }
func (r *Request) AcceptMultiple() (bool, bool) { return r.getBool(ParamAcceptMultiple) }
func (r *Request) SetAcceptMultiple(v bool) { r.setBool(ParamAcceptMultiple, v) }
func (r *Request) AcceptUnsigned() (bool, bool) { return r.getBool(ParamAcceptUnsigned) }
func (r *Request) SetAcceptUnsigned(v bool) { r.setBool(ParamAcceptUnsigned, v) }
func (r *Request) AutoCreate() (bool, bool) { return r.getBool(ParamAutoCreate) }
func (r *Request) SetAutoCreate(v bool) { r.setBool(ParamAutoCreate, v) }
func (r *Request) CanConfirm() (bool, bool) { return r.getBool(ParamCanConfirm) }
func (r *Request) SetCanConfirm(v bool) { r.setBool(ParamCanConfirm, v) }

func (r *Request) LaunchPresentationWidth() (int, bool) { return r.getInt(ParamLaunchPresentationWidth) }
func (r *Request) SetLaunchPresentationWidth(v int) { r.setInt(ParamLaunchPresentationWidth, v) }
func (r *Request) LaunchPresentationHeight() (int, bool) { return r.getInt(ParamLaunchPresentationHeight) }
func (r *Request) SetLaunchPresentationHeight(v int) { r.setInt(ParamLaunchPresentationHeight, v) }
