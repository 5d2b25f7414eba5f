package database

// DefaultSeedPassword exposes defaultSeedPassword to the external test package.
const DefaultSeedPassword = defaultSeedPassword
