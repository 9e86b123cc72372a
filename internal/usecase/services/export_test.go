package services

// AddMonths exposes the calendar arithmetic behind loan end dates to the
// external test package.
var AddMonths = addMonths
