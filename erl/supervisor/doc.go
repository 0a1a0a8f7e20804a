/*
Package supervisor provides a way to supervise processes, which is a core concept in creating fault-tolerant applications.

A supervisor is a process that supervises other processes, called child processes. Supervisors are used to build a hierarchical process structure called a supervision tree.

For a more detailed explanation of supervisors, see the [supervisor documentation](../../docs/supervisor.md).
*/
package supervisor
