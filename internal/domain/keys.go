package domain

// KeyPrefix namespaces every key and index shopagent writes to the store.
const KeyPrefix = "shopagent:"
