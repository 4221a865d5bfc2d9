package common

// TimestampSentinel is the document field value that the backend replaces
// with the current server time on write.
const TimestampSentinel = "$serverTimestamp"
