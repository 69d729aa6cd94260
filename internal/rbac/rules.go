package rbac

// RolePermissions is the default policy. Owner checks happen in the quiz service.
var RolePermissions = map[string][]string{
	"student": {
		"course:view",
		"question:view",
		"answer:submit",
		"answer:view-own",
	},
	"teacher": {
		"course:create",
		"course:enroll",
		"course:view",
		"question:create",
		"question:delete_own",
		"question:view",
		"question:import",
		"answer:view-all",
		"report:*",
	},
	"admin": {
		"*",
	},
}
