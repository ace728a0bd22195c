package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE workflows (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_workflows_created_at ON workflows(created_at);

			CREATE TABLE nodes (
				id UUID PRIMARY KEY,
				workflow_id UUID NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
				node_type VARCHAR(50) NOT NULL CHECK (node_type IN ('start', 'end', 'message', 'condition')),
				status VARCHAR(50) CHECK (status IN ('pending', 'sent', 'opened')),
				text TEXT,
				condition TEXT,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_nodes_workflow_id ON nodes(workflow_id);
			CREATE INDEX idx_nodes_type ON nodes(node_type);

			-- Edges are identified by the (out, in, label) triple, so a
			-- condition node can carry one Yes and one No branch and every
			-- other node at most one unlabeled successor.
			CREATE TABLE edges (
				out_id UUID NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
				in_id UUID NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
				label VARCHAR(10) NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				PRIMARY KEY (out_id, in_id, label)
			);

			CREATE INDEX idx_edges_out_id ON edges(out_id);
			CREATE INDEX idx_edges_in_id ON edges(in_id);
		`,
	}
}
