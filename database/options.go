package database

type findPackagesOptions struct {
	limit     int
	order     *FindPackagesOrderBy
	tableName string
}

type FindPackagesOptions func(*findPackagesOptions)

// Limit the number of packages returned.
func WithFindPackagesLimit(limit int) FindPackagesOptions {
	return func(o *findPackagesOptions) {
		o.limit = limit
	}
}

type FindPackagesOrderBy string

const (
	// Order by size, smallest first.
	FindPackagesOrderBySize FindPackagesOrderBy = "size"
)

// Return the packages in a specific order. Oldest first by default.
func WithFindPackagesOrderBy(order FindPackagesOrderBy) FindPackagesOptions {
	return func(o *findPackagesOptions) {
		o.order = &order
	}
}

// Only return packages of a table.
func WithFindPackagesTableName(name string) FindPackagesOptions {
	return func(o *findPackagesOptions) {
		o.tableName = name
	}
}
