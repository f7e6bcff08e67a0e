package mitigation

// Normalize exposes normalize to the external test package.
var Normalize = normalize
