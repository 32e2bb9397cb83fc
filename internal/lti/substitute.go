package lti

import (
	"regexp"
	"strings"

	"github.com/ltilibrary/lti-go/internal/oauth"
)

// variablePattern matches $Namespace.path tokens such as $Person.name.given.
var variablePattern = regexp.MustCompile(`\$[A-Za-z]+(?:\.[A-Za-z0-9]+)+`)

// variables maps lower-cased substitution tokens to the launch parameter that supplies their
// value.
var variables = map[string]string{
	"$user.id":       ParamUserID,
	"$user.image":    ParamUserImage,
	"$user.username": ParamUserName,

	"$person.sourcedid":        ParamPersonSourcedID,
	"$person.name.full":        ParamPersonNameFull,
	"$person.name.family":      ParamPersonNameFamily,
	"$person.name.given":       ParamPersonNameGiven,
	"$person.email.primary":    ParamPersonEmailPrimary,
	"$person.address.street1":  ParamPersonAddressStreet1,
	"$person.address.street2":  ParamPersonAddressStreet2,
	"$person.address.street3":  ParamPersonAddressStreet3,
	"$person.address.street4":  ParamPersonAddressStreet4,
	"$person.address.locality": ParamPersonAddressLocality,
	"$person.address.statepr":  ParamPersonAddressStatePr,
	"$person.address.country":  ParamPersonAddressCountry,
	"$person.address.postcode": ParamPersonAddressPostCode,
	"$person.address.timezone": ParamPersonAddressTimezone,
	"$person.phone.mobile":     ParamPersonPhoneMobile,
	"$person.phone.primary":    ParamPersonPhonePrimary,
	"$person.phone.home":       ParamPersonPhoneHome,
	"$person.phone.work":       ParamPersonPhoneWork,
	"$person.sms":              ParamPersonSMS,
	"$person.webaddress":       ParamPersonWebAddress,

	"$context.id":    ParamContextID,
	"$context.type":  ParamContextType,
	"$context.title": ParamContextTitle,
	"$context.label": ParamContextLabel,

	"$resourcelink.id":          ParamResourceLinkID,
	"$resourcelink.title":       ParamResourceLinkTitle,
	"$resourcelink.description": ParamResourceLinkDescription,

	"$coursetemplate.title":     ParamContextTitle,
	"$coursetemplate.label":     ParamContextLabel,
	"$courseoffering.sourcedid": ParamCourseOfferingSourcedID,
	"$courseoffering.title":     ParamContextTitle,
	"$courseoffering.label":     ParamContextLabel,
	"$coursesection.sourcedid":  ParamCourseSectionSourcedID,
	"$coursesection.title":      ParamContextTitle,
	"$coursesection.label":      ParamContextLabel,

	"$group.id":    ParamContextID,
	"$group.title": ParamContextTitle,
	"$group.label": ParamContextLabel,

	"$membership.role": ParamRoles,

	"$basicoutcome.sourcedid": ParamLisResultSourcedID,
	"$basicoutcome.url":       ParamLisOutcomeServiceURL,
	"$result.sourcedid":       ParamLisResultSourcedID,

	"$lineitems.url":                    ParamLineItemsServiceURL,
	"$lineitem.url":                     ParamLineItemServiceURL,
	"$results.url":                      ParamResultsServiceURL,
	"$result.url":                       ParamResultServiceURL,
	"$toolproxybinding.memberships.url": ParamMembershipsServiceURL,
	"$toolconsumerprofile.url":          ParamTcProfileURL,
}

// IsVariable reports whether token (e.g. "$Person.name.given") is a recognized substitution
// variable.
func IsVariable(token string) bool {
	_, ok := variables[strings.ToLower(token)]
	return ok
}

// Substitute returns a copy of params in which every recognized $Namespace.path token inside a
// custom_ or ext_ value is replaced with the value of the parameter that backs it, or the empty
// string when that parameter is unset. Unrecognized tokens are left as they are.
//
// Values are looked up in params before any substitution happens, so replacing a token never
// feeds into another replacement within the same pass. A second pass over the result would
// substitute again; call it exactly once per outbound message.
func Substitute(params *oauth.Parameters) *oauth.Parameters {
	out := &oauth.Parameters{}
	for _, p := range params.All() {
		value := p.Value
		if isSubstitutable(p.Name) && strings.Contains(value, "$") {
			value = variablePattern.ReplaceAllStringFunc(value, func(token string) string {
				source, ok := variables[strings.ToLower(token)]
				if !ok {
					return token
				}
				return strings.Join(params.Values(source), ",")
			})
		}
		out.Add(p.Name, value)
	}
	return out
}

// SubstituteCustomVariables expands the substitution variables in r's custom parameters in
// place.
func (r *Request) SubstituteCustomVariables() {
	r.params = Substitute(r.params)
}
