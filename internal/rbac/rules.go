package rbac

// Default policy for the tracker's three roles.
var RolePermissions = map[string][]string{
	"student": {
		"courses:view",
		"courses:select",
		"quiz:take",
		"results:view-own",
		"profile:edit",
	},
	"teacher": {
		"courses:view",
		"courses:manage",
		"questions:import",
		"questions:view",
		"results:view-all",
	},
	"admin": {
		"*", // everything
	},
}
