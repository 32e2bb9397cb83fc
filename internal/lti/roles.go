package lti

import "strings"

// Role is an LIS role. The string value is the short name accepted in the roles parameter;
// the canonical form on the wire is the URN returned by URN.
type Role string

// Context roles (urn:lti:role:ims/lis/...)
const (
	RoleAdministrator                            Role = "Administrator"
	RoleContentDeveloper                         Role = "ContentDeveloper"
	RoleInstructor                               Role = "Instructor"
	RoleLearner                                  Role = "Learner"
	RoleManager                                  Role = "Manager"
	RoleMember                                   Role = "Member"
	RoleMentor                                   Role = "Mentor"
	RoleTeachingAssistant                        Role = "TeachingAssistant"
	RoleAdministratorSupport                     Role = "AdministratorSupport"
	RoleAdministratorDeveloper                   Role = "AdministratorDeveloper"
	RoleAdministratorSystemAdministrator         Role = "AdministratorSystemAdministrator"
	RoleAdministratorExternalSystemAdministrator Role = "AdministratorExternalSystemAdministrator"
	RoleLibrarian                                Role = "Librarian"
	RoleContentExpert                            Role = "ContentExpert"
	RoleExternalContentExpert                    Role = "ExternalContentExpert"
	RolePrimaryInstructor                        Role = "PrimaryInstructor"
	RoleLecturer                                 Role = "Lecturer"
	RoleGuestInstructor                          Role = "GuestInstructor"
	RoleExternalInstructor                       Role = "ExternalInstructor"
	RoleNonCreditLearner                         Role = "NonCreditLearner"
	RoleGuestLearner                             Role = "GuestLearner"
	RoleExternalLearner                          Role = "ExternalLearner"
	RoleAreaManager                              Role = "AreaManager"
	RoleCourseCoordinator                        Role = "CourseCoordinator"
	RoleObserver                                 Role = "Observer"
	RoleExternalObserver                         Role = "ExternalObserver"
	RoleAdvisor                                  Role = "Advisor"
	RoleAuditor                                  Role = "Auditor"
	RoleReviewer                                 Role = "Reviewer"
	RoleTutor                                    Role = "Tutor"
	RoleLearningFacilitator                      Role = "LearningFacilitator"
	RoleExternalMentor                           Role = "ExternalMentor"
	RoleTeachingAssistantSection                 Role = "TeachingAssistantSection"
	RoleTeachingAssistantOffering                Role = "TeachingAssistantOffering"
	RoleTeachingAssistantTemplate                Role = "TeachingAssistantTemplate"
	RoleTeachingAssistantGroup                   Role = "TeachingAssistantGroup"
	RoleGrader                                   Role = "Grader"
)

// Institution roles (urn:lti:instrole:ims/lis/...)
const (
	RoleInstitutionStudent            Role = "InstitutionStudent"
	RoleInstitutionFaculty            Role = "InstitutionFaculty"
	RoleInstitutionMember             Role = "InstitutionMember"
	RoleInstitutionLearner            Role = "InstitutionLearner"
	RoleInstitutionInstructor         Role = "InstitutionInstructor"
	RoleInstitutionMentor             Role = "InstitutionMentor"
	RoleInstitutionStaff              Role = "InstitutionStaff"
	RoleInstitutionAlumni             Role = "InstitutionAlumni"
	RoleInstitutionProspectiveStudent Role = "InstitutionProspectiveStudent"
	RoleInstitutionGuest              Role = "InstitutionGuest"
	RoleInstitutionOther              Role = "InstitutionOther"
	RoleInstitutionAdministrator      Role = "InstitutionAdministrator"
	RoleInstitutionObserver           Role = "InstitutionObserver"
	RoleInstitutionNone               Role = "InstitutionNone"
)

// System roles (urn:lti:sysrole:ims/lis/...)
const (
	RoleSysAdmin            Role = "SysAdmin"
	RoleSysSupport          Role = "SysSupport"
	RoleCreator             Role = "Creator"
	RoleAccountAdmin        Role = "AccountAdmin"
	RoleSystemUser          Role = "SystemUser"
	RoleSystemAdministrator Role = "SystemAdministrator"
	RoleSystemNone          Role = "SystemNone"
)

// roleURNs is the canonical URN of every known role.
var roleURNs = map[Role]string{
	RoleAdministrator:                            "urn:lti:role:ims/lis/Administrator",
	RoleContentDeveloper:                         "urn:lti:role:ims/lis/ContentDeveloper",
	RoleInstructor:                               "urn:lti:role:ims/lis/Instructor",
	RoleLearner:                                  "urn:lti:role:ims/lis/Learner",
	RoleManager:                                  "urn:lti:role:ims/lis/Manager",
	RoleMember:                                   "urn:lti:role:ims/lis/Member",
	RoleMentor:                                   "urn:lti:role:ims/lis/Mentor",
	RoleTeachingAssistant:                        "urn:lti:role:ims/lis/TeachingAssistant",
	RoleAdministratorSupport:                     "urn:lti:role:ims/lis/Administrator/Support",
	RoleAdministratorDeveloper:                   "urn:lti:role:ims/lis/Administrator/Developer",
	RoleAdministratorSystemAdministrator:         "urn:lti:role:ims/lis/Administrator/SystemAdministrator",
	RoleAdministratorExternalSystemAdministrator: "urn:lti:role:ims/lis/Administrator/ExternalSystemAdministrator",
	RoleLibrarian:                                "urn:lti:role:ims/lis/ContentDeveloper/Librarian",
	RoleContentExpert:                            "urn:lti:role:ims/lis/ContentDeveloper/ContentExpert",
	RoleExternalContentExpert:                    "urn:lti:role:ims/lis/ContentDeveloper/ExternalContentExpert",
	RolePrimaryInstructor:                        "urn:lti:role:ims/lis/Instructor/PrimaryInstructor",
	RoleLecturer:                                 "urn:lti:role:ims/lis/Instructor/Lecturer",
	RoleGuestInstructor:                          "urn:lti:role:ims/lis/Instructor/GuestInstructor",
	RoleExternalInstructor:                       "urn:lti:role:ims/lis/Instructor/ExternalInstructor",
	RoleNonCreditLearner:                         "urn:lti:role:ims/lis/Learner/NonCreditLearner",
	RoleGuestLearner:                             "urn:lti:role:ims/lis/Learner/GuestLearner",
	RoleExternalLearner:                          "urn:lti:role:ims/lis/Learner/ExternalLearner",
	RoleAreaManager:                              "urn:lti:role:ims/lis/Manager/AreaManager",
	RoleCourseCoordinator:                        "urn:lti:role:ims/lis/Manager/CourseCoordinator",
	RoleObserver:                                 "urn:lti:role:ims/lis/Manager/Observer",
	RoleExternalObserver:                         "urn:lti:role:ims/lis/Manager/ExternalObserver",
	RoleAdvisor:                                  "urn:lti:role:ims/lis/Mentor/Advisor",
	RoleAuditor:                                  "urn:lti:role:ims/lis/Mentor/Auditor",
	RoleReviewer:                                 "urn:lti:role:ims/lis/Mentor/Reviewer",
	RoleTutor:                                    "urn:lti:role:ims/lis/Mentor/Tutor",
	RoleLearningFacilitator:                      "urn:lti:role:ims/lis/Mentor/LearningFacilitator",
	RoleExternalMentor:                           "urn:lti:role:ims/lis/Mentor/ExternalMentor",
	RoleTeachingAssistantSection:                 "urn:lti:role:ims/lis/TeachingAssistant/TeachingAssistantSection",
	RoleTeachingAssistantOffering:                "urn:lti:role:ims/lis/TeachingAssistant/TeachingAssistantOffering",
	RoleTeachingAssistantTemplate:                "urn:lti:role:ims/lis/TeachingAssistant/TeachingAssistantTemplate",
	RoleTeachingAssistantGroup:                   "urn:lti:role:ims/lis/TeachingAssistant/TeachingAssistantGroup",
	RoleGrader:                                   "urn:lti:role:ims/lis/TeachingAssistant/Grader",

	RoleInstitutionStudent:            "urn:lti:instrole:ims/lis/Student",
	RoleInstitutionFaculty:            "urn:lti:instrole:ims/lis/Faculty",
	RoleInstitutionMember:             "urn:lti:instrole:ims/lis/Member",
	RoleInstitutionLearner:            "urn:lti:instrole:ims/lis/Learner",
	RoleInstitutionInstructor:         "urn:lti:instrole:ims/lis/Instructor",
	RoleInstitutionMentor:             "urn:lti:instrole:ims/lis/Mentor",
	RoleInstitutionStaff:              "urn:lti:instrole:ims/lis/Staff",
	RoleInstitutionAlumni:             "urn:lti:instrole:ims/lis/Alumni",
	RoleInstitutionProspectiveStudent: "urn:lti:instrole:ims/lis/ProspectiveStudent",
	RoleInstitutionGuest:              "urn:lti:instrole:ims/lis/Guest",
	RoleInstitutionOther:              "urn:lti:instrole:ims/lis/Other",
	RoleInstitutionAdministrator:      "urn:lti:instrole:ims/lis/Administrator",
	RoleInstitutionObserver:           "urn:lti:instrole:ims/lis/Observer",
	RoleInstitutionNone:               "urn:lti:instrole:ims/lis/None",

	RoleSysAdmin:            "urn:lti:sysrole:ims/lis/SysAdmin",
	RoleSysSupport:          "urn:lti:sysrole:ims/lis/SysSupport",
	RoleCreator:             "urn:lti:sysrole:ims/lis/Creator",
	RoleAccountAdmin:        "urn:lti:sysrole:ims/lis/AccountAdmin",
	RoleSystemUser:          "urn:lti:sysrole:ims/lis/User",
	RoleSystemAdministrator: "urn:lti:sysrole:ims/lis/Administrator",
	RoleSystemNone:          "urn:lti:sysrole:ims/lis/None",
}

// roleLookup resolves lower-cased URNs and short names to roles. Built once from roleURNs and
// read-only afterwards.
var roleLookup = buildRoleLookup()

func buildRoleLookup() map[string]Role {
	lookup := make(map[string]Role, 2*len(roleURNs))
	for role, urn := range roleURNs {
		lookup[strings.ToLower(urn)] = role
		lookup[strings.ToLower(string(role))] = role
	}
	return lookup
}

// URN returns the canonical URN, or "" for an unknown role.
func (r Role) URN() string {
	return roleURNs[r]
}

// ParseRole resolves a short name or a URN, case-insensitively.
func ParseRole(token string) (Role, bool) {
	role, ok := roleLookup[strings.ToLower(strings.TrimSpace(token))]
	return role, ok
}

// ParseRoles splits a comma-separated roles value.
//
// Unrecognised tokens are dropped rather than rejected or kept, so a launch from a consumer
// sending roles this package does not know still succeeds with the roles it does know.
// Duplicates are collapsed, keeping the first occurrence.
func ParseRoles(value string) []Role {
	var roles []Role
	seen := make(map[Role]bool)
	for _, token := range strings.Split(value, ",") {
		role, ok := ParseRole(token)
		if !ok || seen[role] {
			continue
		}
		seen[role] = true
		roles = append(roles, role)
	}
	return roles
}

// FormatRoles joins the URNs of roles with commas. Unknown roles are skipped.
func FormatRoles(roles []Role) string {
	urns := make([]string, 0, len(roles))
	for _, role := range roles {
		if urn := role.URN(); urn != "" {
			urns = append(urns, urn)
		}
	}
	return strings.Join(urns, ",")
}
