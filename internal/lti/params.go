package lti

// Launch parameter names.
const (
	ParamLtiMessageType = "lti_message_type"
	ParamLtiVersion     = "lti_version"

	ParamResourceLinkID          = "resource_link_id"
	ParamResourceLinkTitle       = "resource_link_title"
	ParamResourceLinkDescription = "resource_link_description"

	ParamUserID          = "user_id"
	ParamUserImage       = "user_image"
	ParamUserName        = "ext_user_username"
	ParamRoles           = "roles"
	ParamRoleScopeMentor = "role_scope_mentor"

	ParamPersonNameGiven         = "lis_person_name_given"
	ParamPersonNameFamily        = "lis_person_name_family"
	ParamPersonNameFull          = "lis_person_name_full"
	ParamPersonEmailPrimary      = "lis_person_contact_email_primary"
	ParamPersonSourcedID         = "lis_person_sourcedid"
	ParamPersonAddressStreet1    = "lis_person_address_street1"
	ParamPersonAddressStreet2    = "lis_person_address_street2"
	ParamPersonAddressStreet3    = "lis_person_address_street3"
	ParamPersonAddressStreet4    = "lis_person_address_street4"
	ParamPersonAddressLocality   = "lis_person_address_locality"
	ParamPersonAddressStatePr    = "lis_person_address_statepr"
	ParamPersonAddressCountry    = "lis_person_address_country"
	ParamPersonAddressPostCode   = "lis_person_address_postcode"
	ParamPersonAddressTimezone   = "lis_person_address_timezone"
	ParamPersonPhoneMobile       = "lis_person_phone_mobile"
	ParamPersonPhonePrimary      = "lis_person_phone_primary"
	ParamPersonPhoneHome         = "lis_person_phone_home"
	ParamPersonPhoneWork         = "lis_person_phone_work"
	ParamPersonSMS               = "lis_person_sms"
	ParamPersonWebAddress        = "lis_person_webaddress"
	ParamCourseOfferingSourcedID = "lis_course_offering_sourcedid"
	ParamCourseSectionSourcedID  = "lis_course_section_sourcedid"

	ParamContextID    = "context_id"
	ParamContextType  = "context_type"
	ParamContextTitle = "context_title"
	ParamContextLabel = "context_label"

	ParamLaunchPresentationLocale         = "launch_presentation_locale"
	ParamLaunchPresentationDocumentTarget = "launch_presentation_document_target"
	ParamLaunchPresentationCSSURL         = "launch_presentation_css_url"
	ParamLaunchPresentationWidth          = "launch_presentation_width"
	ParamLaunchPresentationHeight         = "launch_presentation_height"
	ParamLaunchPresentationReturnURL      = "launch_presentation_return_url"

	ParamToolConsumerInfoProductFamilyCode = "tool_consumer_info_product_family_code"
	ParamToolConsumerInfoVersion           = "tool_consumer_info_version"
	ParamToolConsumerInstanceGUID          = "tool_consumer_instance_guid"
	ParamToolConsumerInstanceName          = "tool_consumer_instance_name"
	ParamToolConsumerInstanceDescription   = "tool_consumer_instance_description"
	ParamToolConsumerInstanceURL           = "tool_consumer_instance_url"
	ParamToolConsumerInstanceContactEmail  = "tool_consumer_instance_contact_email"

	// Basic Outcomes (LTI 1.1)
	ParamLisOutcomeServiceURL = "lis_outcome_service_url"
	ParamLisResultSourcedID   = "lis_result_sourcedid"

	// Outcomes Management and Membership service endpoints (LTI 2), sent as custom parameters
	ParamLineItemsServiceURL   = "custom_lineitems_url"
	ParamLineItemServiceURL    = "custom_lineitem_url"
	ParamResultsServiceURL     = "custom_results_url"
	ParamResultServiceURL      = "custom_result_url"
	ParamMembershipsServiceURL = "custom_context_memberships_url"

	// Content-Item Message
	ParamAcceptMediaTypes                  = "accept_media_types"
	ParamAcceptPresentationDocumentTargets = "accept_presentation_document_targets"
	ParamAcceptCopyAdvice                  = "accept_copy_advice"
	ParamAcceptMultiple                    = "accept_multiple"
	ParamAcceptUnsigned                    = "accept_unsigned"
	ParamAutoCreate                        = "auto_create"
	ParamCanConfirm                        = "can_confirm"
	ParamContentItemReturnURL              = "content_item_return_url"
	ParamContentItems                      = "content_items"
	ParamConfirmURL                        = "confirm_url"
	ParamData                              = "data"
	ParamTitle                             = "title"
	ParamText                              = "text"

	// Return messages
	ParamLtiMsg      = "lti_msg"
	ParamLtiLog      = "lti_log"
	ParamLtiErrorMsg = "lti_errormsg"
	ParamLtiErrorLog = "lti_errorlog"

	// Tool proxy registration (LTI 2)
	ParamRegKey       = "reg_key"
	ParamRegPassword  = "reg_password"
	ParamTcProfileURL = "tc_profile_url"

	customPrefix    = "custom_"
	extensionPrefix = "ext_"
)
