// Package workflow holds the decision rules of the thesis topic lifecycle:
// topic status transitions, the declaration sub-workflow and the approval
// flags linking students, teachers and topics.
//
// Functions here only inspect and mutate the records they are given. Loading,
// locking and persisting those records is the caller's job, and the caller is
// expected to do it inside one transaction.
package workflow
